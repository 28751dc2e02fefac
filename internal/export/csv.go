package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"vodscribe/internal/article"
)

// CSVRenderer flattens the article into rows for spreadsheet review.
type CSVRenderer struct{}

func (r *CSVRenderer) Extension() string { return "csv" }

func (r *CSVRenderer) Render(output *article.FinalOutput) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Type", "Content", "Additional"}); err != nil {
		return nil, err
	}
	for _, row := range csvRows(output) {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRows(output *article.FinalOutput) [][]string {
	art := output.Article
	video := output.SourceVideo

	rows := [][]string{
		{"Headline", art.Headline, ""},
		{"Introduction", art.Introduction, ""},
	}
	for _, section := range art.Sections {
		rows = append(rows,
			[]string{"Section Heading", section.Heading, fmt.Sprintf("Word Count: %d", section.WordCount)},
			[]string{"Section Content", section.Content, ""},
		)
	}
	rows = append(rows,
		[]string{"Conclusion", art.Conclusion, ""},
		[]string{"Metadata", "Source Video", video.Title},
		[]string{"Metadata", "Channel", video.Channel},
		[]string{"Metadata", "Video ID", video.VideoID},
		[]string{"Metadata", "Video Duration", fmt.Sprintf("%d seconds", video.DurationSeconds)},
	)
	if seo := output.SEO; seo != nil {
		rows = append(rows,
			[]string{"SEO", "Meta Title", seo.MetaTitle},
			[]string{"SEO", "Meta Description", seo.MetaDescription},
			[]string{"SEO", "Slug", seo.Slug},
			[]string{"SEO", "Primary Keyword", seo.PrimaryKeyword},
			[]string{"SEO", "Secondary Keywords", strings.Join(seo.SecondaryKeywords, ", ")},
		)
	}
	return rows
}
