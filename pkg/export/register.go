package export

import "time"

// registerColumns fixes the column order of the case register in every
// output format.
var registerColumns = []string{"Code", "Kind", "Title", "Student", "Category", "Occurred At", "Channel", "Confidential", "Comment"}

// CaseRow is one exported line of the case register. Values arrive
// preformatted, and confidential comments must already be redacted by
// the caller.
type CaseRow struct {
	Code         string
	Kind         string
	Title        string
	Student      string
	Category     string
	OccurredAt   string
	Channel      string
	Confidential string
	Comment      string
}

func (r CaseRow) values() []string {
	return []string{r.Code, r.Kind, r.Title, r.Student, r.Category, r.OccurredAt, r.Channel, r.Confidential, r.Comment}
}

// Register is the renderable case listing handed to the exporters.
type Register struct {
	Title       string
	GeneratedAt time.Time
	Rows        []CaseRow
}
