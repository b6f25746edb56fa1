package domain

// Paper is a single open-access article resolved from the catalog's
// file list. Papers are immutable once resolved; PMCID is the identity
// used for deduplication everywhere.
type Paper struct {
	// PMCID is the catalog accession ID (e.g. "PMC10234567").
	PMCID string

	// Title is the article citation up to the first period.
	Title string

	// Specialty is the medical niche this paper was fetched for.
	Specialty string

	// ArchivePath is the relative path of the paper's tar.gz package
	// on the catalog's file server.
	ArchivePath string

	// LastUpdated is the catalog timestamp string, either
	// "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD".
	LastUpdated string
}

// LastUpdatedEpoch converts the catalog timestamp to epoch seconds for
// storage-layer range queries. Unparseable timestamps map to 0.
func (p Paper) LastUpdatedEpoch() int64 {
	t, ok := ParseArchiveDate(p.LastUpdated)
	if !ok {
		return 0
	}
	return t.Unix()
}

// ArticleURL returns the public full-text URL for a PMCID.
func ArticleURL(pmcid string) string {
	return "https://www.ncbi.nlm.nih.gov/pmc/articles/" + pmcid + "/"
}
