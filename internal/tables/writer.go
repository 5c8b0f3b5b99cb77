package tables

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mantle-data/genesys-export/internal/extract"
)

// table declares one output CSV: its columns and the primary key the sink
// uses for incremental loading.
type table struct {
	name       string
	columns    []string
	primaryKey []string
}

var (
	conversationsTable = table{
		name:       "conversations",
		columns:    []string{"conversation_id", "conversation_start", "conversation_end"},
		primaryKey: []string{"conversation_id"},
	}
	agentsTable = table{
		name:       "agents",
		columns:    []string{"conversation_id", "agent_email"},
		primaryKey: []string{"conversation_id", "agent_email"},
	}
	wrapUpCodeTable = table{
		name:       "wrap_up_code",
		columns:    []string{"conversation_id", "wrap_up_code"},
		primaryKey: []string{"conversation_id", "wrap_up_code"},
	}
)

// Writer projects flattened records into the three output tables. All three
// files are written on every run, headers included, so an empty window still
// produces a complete, loadable output set.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) WriteRecords(records []extract.Record) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var convRows, agentRows, wrapRows [][]string
	for _, rec := range records {
		convRows = append(convRows, []string{rec.ConversationID, rec.ConversationStart, rec.ConversationEnd})
		for _, agent := range rec.Agents {
			agentRows = append(agentRows, []string{rec.ConversationID, agent})
		}
		for _, code := range rec.WrapUpCodes {
			wrapRows = append(wrapRows, []string{rec.ConversationID, code})
		}
	}

	if err := w.writeTable(conversationsTable, convRows); err != nil {
		return err
	}
	if err := w.writeTable(agentsTable, agentRows); err != nil {
		return err
	}
	return w.writeTable(wrapUpCodeTable, wrapRows)
}

// writeTable writes the CSV to a temp file and renames it into place, so a
// crash mid-write never leaves a half-written file under the final name.
// The manifest is written after the rename succeeds.
func (w *Writer) writeTable(t table, rows [][]string) error {
	final := filepath.Join(w.dir, t.name+".csv")

	tmp, err := os.CreateTemp(w.dir, t.name+".csv.tmp*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", t.name, err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(t.columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s header: %w", t.name, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s rows: %w", t.name, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", t.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", t.name, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return fmt.Errorf("rename %s: %w", t.name, err)
	}

	return w.writeManifest(t, final)
}

// manifest is the sink's table descriptor: which columns form the primary
// key and that rows are appended rather than replacing the dataset.
type manifest struct {
	Incremental bool     `json:"incremental"`
	PrimaryKey  []string `json:"primary_key"`
}

func (w *Writer) writeManifest(t table, csvPath string) error {
	data, err := json.MarshalIndent(manifest{Incremental: true, PrimaryKey: t.primaryKey}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s manifest: %w", t.name, err)
	}
	if err := os.WriteFile(csvPath+".manifest", data, 0o644); err != nil {
		return fmt.Errorf("write %s manifest: %w", t.name, err)
	}
	return nil
}
