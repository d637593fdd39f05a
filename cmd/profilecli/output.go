package main

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func outputSummaries(w io.Writer, summaries []summary) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Raw size", "Size", "Codec", "Encoding", "Chunks", "Lines", "JSON"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, s := range summaries {
		table.Append([]string{
			s.Name,
			humanize.Bytes(uint64(s.RawSize)),
			humanize.Bytes(uint64(s.Size)),
			s.Codec,
			s.Encoding,
			strconv.Itoa(s.Chunks),
			strconv.Itoa(s.Lines),
			strconv.FormatBool(s.ValidJSON),
		})
	}
	table.Render()
	return nil
}

func outputSummariesJSON(w io.Writer, summaries []summary) error {
	enc := json.NewEncoder(w)
	for _, s := range summaries {
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	return nil
}
