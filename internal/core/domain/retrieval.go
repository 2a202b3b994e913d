package domain

// SnippetLength bounds the snippet attached to retrieved records and
// citations. Longer texts are cut at this length and marked.
const SnippetLength = 200

// RetrievedRecord is a ranked search hit normalised for prompt
// assembly. It lives for the duration of one retrieval call.
type RetrievedRecord struct {
	// Text is the full chunk text as stored in the vector index.
	Text string

	// Source identifies the originating document.
	Source string

	// Locator points at the chunk within its source.
	Locator string

	// Snippet is a bounded prefix of Text, with a truncation marker
	// appended only when truncation occurred.
	Snippet string
}

// Citation is a deduplicated (source, locator, snippet) triple
// surfaced alongside a generated answer. Within a single answer at
// most one citation exists per distinct (Source, Locator) pair.
type Citation struct {
	Source  string `json:"source"`
	Locator string `json:"locator"`
	Snippet string `json:"snippet"`
}

// Key returns the deduplication key for the citation.
func (c Citation) Key() string {
	return c.Source + "\x00" + c.Locator
}

// Answer is the result of the answer assembly step: a best-effort
// answer string plus the citations backing it. Collaborator failures
// degrade the answer text but never discard computed citations.
type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Snippet bounds text to SnippetLength characters, appending a marker
// only when the text was actually cut.
func Snippet(text string) string {
	if len(text) > SnippetLength {
		return text[:SnippetLength] + "..."
	}
	return text
}
