package domain

const (
	// CheckName is the display name of the check run.
	CheckName = "Lighthouse Report"
	// CheckLabel is the fixed label attached to the check output.
	CheckLabel = "Lighthouse report"
)

// Check is everything needed to create one completed check run on a commit.
type Check struct {
	Owner   string
	Repo    string
	HeadSHA string
	Name    string
	Title   string
	Label   string
	Summary string
}

// CheckResult describes a check run after GitHub accepted it.
type CheckResult struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}
