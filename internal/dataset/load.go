package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// DetectFormat picks a format from the file extension of a path or URL.
func DetectFormat(src string) (Format, error) {
	p := src
	if u, err := url.Parse(src); err == nil && isRemote(u) {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(filepath.ToSlash(p))) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, src)
}

func isRemote(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

// Load reads records from a local file or an http(s) URL. A remote source
// is fetched once; there is no retry.
func Load(ctx context.Context, src string) ([]Record, error) {
	format, err := DetectFormat(src)
	if err != nil {
		return nil, err
	}

	var r io.ReadCloser
	if u, perr := url.Parse(src); perr == nil && isRemote(u) {
		r, err = fetch(ctx, http.DefaultClient, src)
	} else {
		r, err = os.Open(src)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src, err)
	}
	defer r.Close()

	records, err := Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, src, err)
	}
	return records, nil
}

func fetch(ctx context.Context, client *http.Client, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// Decode reads records in the given format.
func Decode(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case FormatJSON:
		var records []Record
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	case FormatYAML:
		var records []Record
		if err := yaml.NewDecoder(r).Decode(&records); err != nil {
			if err == io.EOF {
				return []Record{}, nil
			}
			return nil, err
		}
		return records, nil
	case FormatCSV:
		return decodeCSV(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// decodeCSV expects a header row naming the columns; unknown columns are
// ignored and missing ones stay empty.
func decodeCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	field := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			ID:    ID(field(row, "id")),
			Name:  field(row, "name"),
			Theme: field(row, "theme"),
			Tag:   field(row, "tag"),
		})
	}
	return records, nil
}
