package profstore

import (
	"bytes"
	"encoding/json"
	"os"

	"rmpscrape/lib/scrapers/ratemyprof"
)

// WriteJSON serializes the records as a 2-space-indented JSON array and
// fully overwrites the file at `path`. HTML escaping is disabled so
// non-ascii names are written verbatim.
func WriteJSON(path string, records []ratemyprof.Professor) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func ReadJSON(path string) ([]ratemyprof.Professor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []ratemyprof.Professor
	err = json.NewDecoder(f).Decode(&records)
	if err != nil {
		return nil, err
	}
	return records, nil
}
