package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

const requestTimeLayout = "2006-01-02 15:04"

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, info string) {
	writeJSON(w, status, map[string]string{"status": "failed", "info": info})
}

// respond renders payload as JSON, or as CSV when the request carries
// format=csv. Arrays become header+rows keyed by the first element; objects
// are flattened to a single row with underscore-joined keys.
func respond(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	if r.URL.Query().Get("format") != "csv" {
		writeJSON(w, status, payload)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(status)

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return
	}

	switch v := decoded.(type) {
	case []interface{}:
		_, _ = w.Write([]byte(listToCSV(v)))
	case map[string]interface{}:
		_, _ = w.Write([]byte(objectToCSV(v)))
	default:
		_, _ = fmt.Fprint(w, v)
	}
}

func listToCSV(list []interface{}) string {
	if len(list) == 0 {
		return ""
	}
	first, ok := list[0].(map[string]interface{})
	if !ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, cellValue(item))
		}
		return strings.Join(parts, "\n")
	}

	headers := sortedKeys(first)
	lines := make([]string, 0, len(list)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, item := range list {
		row, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		cells := make([]string, 0, len(headers))
		for _, h := range headers {
			cells = append(cells, cellValue(row[h]))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func objectToCSV(obj map[string]interface{}) string {
	flat := map[string]interface{}{}
	flattenInto(flat, "", obj)

	headers := sortedKeys(flat)
	cells := make([]string, 0, len(headers))
	for _, h := range headers {
		cells = append(cells, cellValue(flat[h]))
	}
	return strings.Join(headers, ",") + "\n" + strings.Join(cells, ",")
}

func flattenInto(dst map[string]interface{}, prefix string, value interface{}) {
	key := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "_" + k
	}
	switch v := value.(type) {
	case map[string]interface{}:
		for _, k := range sortedKeys(v) {
			flattenInto(dst, key(k), v[k])
		}
	case []interface{}:
		for i, item := range v {
			flattenInto(dst, key(fmt.Sprintf("%d", i)), item)
		}
	default:
		dst[prefix] = v
	}
}

func cellValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		data, _ := json.Marshal(val)
		return string(data)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		data, _ := json.Marshal(val)
		return string(data)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseDateParam converts a YYYYMMDD path segment to YYYY-MM-DD.
func parseDateParam(s string) (string, error) {
	parsed, err := time.Parse("20060102", s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYYMMDD", s)
	}
	return parsed.Format("2006-01-02"), nil
}

// passID builds the synthetic pass identifier out of station id and the
// timestamp digits.
func passID(stationID string, ts time.Time) string {
	return stationID + ts.UTC().Format("20060102150405")
}
