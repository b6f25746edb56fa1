package domain

// PaperSummary is one newsfeed item: paper metadata plus a short
// content preview (abstract-first, PDF fallback).
type PaperSummary struct {
	PMCID           string `json:"pmcid" firestore:"pmcid"`
	Title           string `json:"title" firestore:"title"`
	PublicationDate string `json:"publication_date" firestore:"publication_date"`
	LastUpdated     string `json:"last_updated" firestore:"last_updated"`
	Content         string `json:"content" firestore:"content"`
	FullTextURL     string `json:"full_text_url" firestore:"full_text_url"`
}

// NewsfeedEntry is the per-specialty cached digest. Entries are
// overwritten wholesale on refresh, never merged; staleness is governed
// by the caller-supplied age threshold.
type NewsfeedEntry struct {
	Papers      []PaperSummary `json:"papers" firestore:"papers"`
	LastFetched string         `json:"last_fetched" firestore:"last_fetched"`
}
