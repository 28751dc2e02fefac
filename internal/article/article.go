package article

// Section is one body section of a generated article.
type Section struct {
	Heading   string `json:"heading"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
}

// Article is the output of the writing stage.
type Article struct {
	Headline     string    `json:"headline"`
	Introduction string    `json:"introduction"`
	Sections     []Section `json:"sections"`
	Conclusion   string    `json:"conclusion"`
	Markdown     string    `json:"markdown"`
	WordCount    int       `json:"word_count"`
}
