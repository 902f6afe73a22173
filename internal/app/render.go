package app

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vothnha26/final-sub001/internal/api/client"
	"github.com/vothnha26/final-sub001/internal/infrastructure/monitoring"
)

// renderPayload writes p to w. JSON is indented; with asTable a list of
// records is drawn as a table instead.
func renderPayload(w io.Writer, p client.Payload, asTable bool) error {
	switch v := p.(type) {
	case client.JSON:
		if asTable {
			if records, ok := recordsOf(v.Value); ok {
				return renderTable(w, records)
			}
		}
		out, err := sonic.ConfigStd.MarshalIndent(v.Value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format response: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case client.Text:
		if v == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, string(v))
		return err
	default:
		return nil
	}
}

func recordsOf(v any) ([]map[string]any, bool) {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		records = append(records, rec)
	}
	return records, true
}

// columns returns the union of record keys, "id" first and the rest sorted.
func columns(records []map[string]any) []string {
	seen := map[string]bool{}
	var keys []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == "id" || keys[j] == "id" {
			return keys[i] == "id"
		}
		return keys[i] < keys[j]
	})
	return keys
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		out, err := sonic.ConfigStd.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(out)
	}
}

func renderTable(w io.Writer, records []map[string]any) error {
	headers := columns(records)
	data := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = cell(rec[h])
		}
		data = append(data, row)
	}

	table := tablewriter.NewWriter(w)
	table.Header(headers)
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// renderMetrics prints what the registry collected during the run
func renderMetrics(w io.Writer, g prometheus.Gatherer, format string) error {
	if format == "prometheus" {
		return monitoring.WriteText(w, g)
	}
	s, err := monitoring.SnapshotFrom(g)
	if err != nil {
		return err
	}
	return renderSnapshot(w, s)
}

func renderSnapshot(w io.Writer, s monitoring.Snapshot) error {
	fmt.Fprintf(w, "requests: %d  failures: %d  transport errors: %d  avg: %s\n",
		s.TotalRequests, s.TotalFailures, s.TransportErrors, s.AverageDuration().Round(time.Microsecond))

	statuses := s.Statuses()
	if len(statuses) == 0 {
		return nil
	}
	data := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		data = append(data, []string{status, strconv.FormatInt(s.ByStatus[status], 10)})
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"status", "count"})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
