package article

// SocialPosts holds per-network promotional copy.
type SocialPosts struct {
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
	Facebook string `json:"facebook,omitempty"`
}

// SEOPackage is the output of the SEO optimization stage.
type SEOPackage struct {
	MetaTitle          string            `json:"meta_title"`
	MetaDescription    string            `json:"meta_description"`
	Slug               string            `json:"slug"`
	PrimaryKeyword     string            `json:"primary_keyword"`
	SecondaryKeywords  []string          `json:"secondary_keywords"`
	SchemaMarkup       map[string]any    `json:"schema_markup,omitempty"`
	OpenGraph          map[string]string `json:"open_graph,omitempty"`
	TwitterCard        map[string]string `json:"twitter_card,omitempty"`
	SocialPosts        SocialPosts       `json:"social_posts"`
	InternalLinkIdeas  []string          `json:"internal_link_suggestions,omitempty"`
}
