package prod

import (
	"encoding/json"
	"fmt"
)

// Response is the envelope returned by the pouet.net prod endpoint. It is
// also the shape persisted as a snapshot.
type Response struct {
	Success bool `json:"success"`
	Prod    Prod `json:"prod"`

	// Raw holds the document the response was decoded from, fields this
	// type does not declare included.
	Raw json.RawMessage `json:"-"`
}

func (r *Response) UnmarshalJSON(data []byte) error {
	type plain Response
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*r = Response(decoded)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Payload is the snapshot representation: the bytes as received when the
// response was decoded, otherwise the declared fields.
func (r *Response) Payload() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal(r)
}

type Prod struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        string              `json:"type,omitempty"`
	Types       []string            `json:"types,omitempty"`
	Platforms   map[string]Platform `json:"platforms,omitempty"`
	Groups      []Group             `json:"groups,omitempty"`
	Placings    []Placing           `json:"placings,omitempty"`
	AddedDate   string              `json:"addedDate,omitempty"`
	ReleaseDate string              `json:"releaseDate,omitempty"`
	Download    string              `json:"download,omitempty"`
	Screenshot  string              `json:"screenshot,omitempty"`

	VoteUp   Count  `json:"voteup"`
	VotePig  Count  `json:"votepig"`
	VoteDown Count  `json:"votedown"`
	VoteAvg  string `json:"voteavg,omitempty"`
	Rank     string `json:"rank,omitempty"`
	CDC      Score  `json:"cdc"`
}

type Platform struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type Group struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym,omitempty"`
	Web     string `json:"web,omitempty"`
}

type Party struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Web  string `json:"web,omitempty"`
}

type Placing struct {
	Party     Party  `json:"party"`
	Compo     string `json:"compo,omitempty"`
	CompoName string `json:"compo_name,omitempty"`
	Ranking   string `json:"ranking,omitempty"`
	Year      string `json:"year,omitempty"`
}

// Votes holds the three vote categories used for change detection.
type Votes struct {
	Up   int
	Pig  int
	Down int
}

// Total is the aggregate that deltas are computed from.
func (v Votes) Total() int {
	return v.Up + v.Pig + v.Down
}

func (p Prod) Votes() Votes {
	return Votes{
		Up:   int(p.VoteUp),
		Pig:  int(p.VotePig),
		Down: int(p.VoteDown),
	}
}

// VoteString renders every counter, the ranking score included.
func (p Prod) VoteString() string {
	return fmt.Sprintf("[voteup: %d, votepig: %d, votedown: %d, cdc: %d]",
		p.VoteUp, p.VotePig, p.VoteDown, p.CDC)
}

// Comment is one entry of a prod's comment feed.
type Comment struct {
	Link  string
	Title string
	Vote  string // rulez, isok, sucks or empty
	Body  string
}
