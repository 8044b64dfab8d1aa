package storage

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/encoding/json"
)

// Decision verdicts.
const (
	VerdictDuplicate = "duplicate"
	VerdictDistinct  = "distinct"
)

// Decision records an operator's resolution of a proposed duplicate pair.
// Pairs are stored canonically: PrimaryID <= DuplicateID.
type Decision struct {
	PrimaryID   string    `json:"primary_id"`
	DuplicateID string    `json:"duplicate_id"`
	Verdict     string    `json:"verdict"` // duplicate or distinct
	Note        string    `json:"note,omitempty"`
	DecidedAt   time.Time `json:"decided_at"`
}

// ReadAllDecisions reads all decisions from a JSONL file.
func ReadAllDecisions(path string) ([]Decision, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening decisions file: %w", err)
	}
	defer f.Close()

	var decisions []Decision
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var d Decision
		if err := json.Unmarshal(line, &d); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		decisions = append(decisions, d)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading decisions file: %w", err)
	}

	return decisions, nil
}

// AppendDecision adds a decision to the end of a JSONL file. The pair is
// canonicalized before writing so later lookups need a single key form.
func AppendDecision(path string, d Decision) error {
	if d.DuplicateID < d.PrimaryID {
		d.PrimaryID, d.DuplicateID = d.DuplicateID, d.PrimaryID
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening decisions file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding decision: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing decision: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}
