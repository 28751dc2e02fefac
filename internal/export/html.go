package export

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vodscribe/internal/article"
	langcode "vodscribe/internal/language"
)

// HTMLRenderer writes a self-contained HTML document with inline styles
// and SEO meta tags. Section bodies pass through a markdown converter so
// inline formatting from the writing stage survives.
type HTMLRenderer struct{}

func (r *HTMLRenderer) Extension() string { return "html" }

type htmlSection struct {
	Heading string
	Body    template.HTML
}

type htmlPage struct {
	Lang        string
	Headline    string
	SourceTitle string
	SourceURL   string
	Channel     string
	Generated   string

	MetaDescription string
	Keywords        string
	OGTitle         string
	OGDescription   string
	TwitterTitle    string
	TwitterDesc     string

	Introduction template.HTML
	Sections     []htmlSection
	Conclusion   template.HTML

	HasSEO         bool
	Slug           string
	PrimaryKeyword string
	ReadingMinutes int
}

func (r *HTMLRenderer) Render(output *article.FinalOutput) ([]byte, error) {
	art := output.Article
	page := htmlPage{
		Lang:        pageLang(output),
		Headline:    art.Headline,
		SourceTitle: output.SourceVideo.Title,
		SourceURL:   output.SourceVideo.URL,
		Channel:     output.SourceVideo.Channel,
		Generated:   output.GeneratedAt.Format("2006-01-02 15:04:05"),
	}
	if page.Headline == "" {
		page.Headline = displayTitle(output)
	}

	var err error
	if page.Introduction, err = renderMarkdown(art.Introduction); err != nil {
		return nil, err
	}
	for _, section := range art.Sections {
		body, err := renderMarkdown(section.Content)
		if err != nil {
			return nil, err
		}
		page.Sections = append(page.Sections, htmlSection{Heading: section.Heading, Body: body})
	}
	if page.Conclusion, err = renderMarkdown(art.Conclusion); err != nil {
		return nil, err
	}

	if seo := output.SEO; seo != nil {
		page.HasSEO = true
		page.MetaDescription = seo.MetaDescription
		page.Keywords = strings.Join(append([]string{seo.PrimaryKeyword}, seo.SecondaryKeywords...), ", ")
		page.OGTitle = seo.OpenGraph["og:title"]
		page.OGDescription = seo.OpenGraph["og:description"]
		page.TwitterTitle = seo.TwitterCard["twitter:title"]
		page.TwitterDesc = seo.TwitterCard["twitter:description"]
		page.Slug = seo.Slug
		page.PrimaryKeyword = seo.PrimaryKeyword
	}
	page.ReadingMinutes = art.WordCount / 200

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	// goldmark escapes raw HTML by default, so the converted output is
	// safe to embed.
	return template.HTML(buf.String()), nil
}

// pageLang resolves the document language from the transcript, falling
// back to English when the transcript was excluded from the output.
func pageLang(output *article.FinalOutput) string {
	if output.Transcript != nil {
		if code := langcode.ToISO2(output.Transcript.Language); code != "" {
			return code
		}
	}
	return "en"
}

// displayTitle derives a readable headline from the slug or video title
// when the writing stage produced none.
func displayTitle(output *article.FinalOutput) string {
	if output.SEO != nil && output.SEO.Slug != "" {
		words := strings.ReplaceAll(output.SEO.Slug, "-", " ")
		return cases.Title(language.English).String(words)
	}
	return output.SourceVideo.Title
}

var htmlTemplate = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Headline}}</title>
{{- if .HasSEO}}
    <meta name="description" content="{{.MetaDescription}}">
    <meta name="keywords" content="{{.Keywords}}">
    <meta property="og:title" content="{{.OGTitle}}">
    <meta property="og:description" content="{{.OGDescription}}">
    <meta name="twitter:title" content="{{.TwitterTitle}}">
    <meta name="twitter:description" content="{{.TwitterDesc}}">
{{- end}}
    <style>` + htmlStyles + `</style>
</head>
<body>
    <article>
        <header>
            <h1>{{.Headline}}</h1>
            <div class="article-meta">
                <span class="source">Source: <a href="{{.SourceURL}}" target="_blank">{{.SourceTitle}}</a></span>
                <span class="channel">Channel: {{.Channel}}</span>
                <span class="generated">Generated: {{.Generated}}</span>
            </div>
        </header>

        <section class="introduction">
            {{.Introduction}}
        </section>

        <main>
{{- range .Sections}}
            <h2>{{.Heading}}</h2>
            {{.Body}}
{{- end}}
        </main>

        <section class="conclusion">
            <h2>Conclusion</h2>
            {{.Conclusion}}
        </section>
{{- if .HasSEO}}
        <footer class="metadata">
            <h3>Article Metadata</h3>
            <dl>
                <dt>Slug</dt>
                <dd>{{.Slug}}</dd>
                <dt>Primary Keyword</dt>
                <dd>{{.PrimaryKeyword}}</dd>
                <dt>Keywords</dt>
                <dd>{{.Keywords}}</dd>
                <dt>Reading Time</dt>
                <dd>{{.ReadingMinutes}} minutes</dd>
            </dl>
        </footer>
{{- end}}
    </article>
</body>
</html>
`))

const htmlStyles = `
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', sans-serif;
            line-height: 1.6;
            color: #333;
            background-color: #f9f9f9;
            padding: 20px;
        }
        article {
            max-width: 800px;
            margin: 0 auto;
            background-color: white;
            padding: 40px;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
        }
        header { border-bottom: 2px solid #007bff; padding-bottom: 20px; margin-bottom: 30px; }
        h1 { font-size: 2.5em; margin-bottom: 15px; color: #1a1a1a; }
        h2 {
            font-size: 1.8em;
            margin-top: 30px;
            margin-bottom: 15px;
            color: #333;
            border-left: 4px solid #007bff;
            padding-left: 15px;
        }
        h3 { font-size: 1.3em; margin-top: 20px; margin-bottom: 10px; color: #555; }
        p { margin-bottom: 15px; text-align: justify; }
        a { color: #007bff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        blockquote {
            border-left: 4px solid #ddd;
            padding-left: 20px;
            margin: 20px 0;
            color: #666;
            font-style: italic;
        }
        .article-meta { font-size: 0.9em; color: #666; display: flex; gap: 20px; flex-wrap: wrap; }
        .introduction {
            font-size: 1.1em;
            margin-bottom: 30px;
            padding: 15px;
            background-color: #f0f7ff;
            border-radius: 5px;
        }
        main { margin: 30px 0; }
        .conclusion { margin-top: 30px; padding-top: 20px; border-top: 2px solid #007bff; }
        footer.metadata {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 2px solid #eee;
            font-size: 0.9em;
            color: #666;
        }
        footer.metadata dl { display: grid; grid-template-columns: 150px 1fr; gap: 15px; }
        footer.metadata dt { font-weight: bold; color: #333; }
        footer.metadata dd { color: #666; }
`
