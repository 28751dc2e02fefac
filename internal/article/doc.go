// Package article defines the structured data flowing between pipeline
// stages: transcript, content analysis, generated article, SEO package,
// policy filter result, quality assessment, and the final bundled output.
package article
