package quandl

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
)

// isinToken marks the ISIN inside a dataset description, followed by
// the 12-character identifier.
const isinToken = "| ISIN "

const isinLength = 12

// codeEntry is one dataset of the codes file.
type codeEntry struct {
	Code string // dataset code, e.g. "SSE/DB1"
	ISIN string
	Name string
}

// codesProvider lazily loads and caches the dataset codes CSV. Rows
// without a parseable ISIN are skipped; duplicate ISINs keep the first
// row.
type codesProvider struct {
	path string

	once    sync.Once
	loadErr error
	entries []codeEntry
	byISIN  map[string]codeEntry
}

func newCodesProvider(path string) *codesProvider {
	return &codesProvider{path: path}
}

func (p *codesProvider) load() {
	file, err := os.Open(p.path)
	if err != nil {
		p.loadErr = fmt.Errorf("failed to open codes file: %w", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		p.loadErr = fmt.Errorf("failed to parse codes file: %w", err)
		return
	}

	p.byISIN = make(map[string]codeEntry)
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		entry, ok := parseCodeRecord(record[0], record[1])
		if !ok {
			continue
		}
		if _, seen := p.byISIN[entry.ISIN]; seen {
			continue
		}
		p.byISIN[entry.ISIN] = entry
		p.entries = append(p.entries, entry)
	}
}

// parseCodeRecord extracts the ISIN and display name from a dataset
// description like "Deutsche Boerse AG (DB1) | ISIN DE0005810055".
func parseCodeRecord(code, description string) (codeEntry, bool) {
	pos := strings.Index(description, isinToken)
	if pos < 0 {
		return codeEntry{}, false
	}

	start := pos + len(isinToken)
	if start+isinLength > len(description) {
		return codeEntry{}, false
	}
	isin := description[start : start+isinLength]

	name := strings.TrimSpace(description[:pos])
	if code == "" || name == "" {
		return codeEntry{}, false
	}

	return codeEntry{Code: code, ISIN: isin, Name: name}, true
}

// lookup resolves an ISIN to its dataset entry.
func (p *codesProvider) lookup(isin string) (codeEntry, error) {
	p.once.Do(p.load)
	if p.loadErr != nil {
		return codeEntry{}, p.loadErr
	}

	entry, ok := p.byISIN[isin]
	if !ok {
		return codeEntry{}, fmt.Errorf("no dataset code for ISIN %s", isin)
	}
	return entry, nil
}

// all returns every entry of the codes file in file order.
func (p *codesProvider) all() ([]codeEntry, error) {
	p.once.Do(p.load)
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.entries, nil
}
