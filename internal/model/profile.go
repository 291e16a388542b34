package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Profile is a developer profile. Exactly one exists per user (user_id is
// the primary key in storage), created on the first upsert and updated in
// place afterwards.
//
// Skills, Social, Experience and Education are embedded in the profile row
// as JSON columns — the profile behaves like a single document: sub-list
// mutations load it, change the list, and persist the whole thing.
type Profile struct {
	UserID         string       `json:"userId"`
	User           *UserRef     `json:"user,omitempty"` // owner's name/avatar, populated on reads
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GithubUsername string       `json:"githubUsername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         SocialLinks  `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// SocialLinks holds the profile's social media URLs. Each populated link is
// normalized to an absolute HTTPS-preferring form before storage; empty
// links stay empty and are omitted from JSON.
type SocialLinks struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is one entry in the profile's work history. Entries are kept
// newest-first: inserts always prepend. If Current is true, To is nil.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is one entry in the profile's education history. Same ordering
// and date rules as Experience.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// StringList is a []string that also accepts a single comma-delimited string
// when decoding JSON. The skills field historically arrived either way:
//
//	"skills": ["js", "go"]        → ["js", "go"]
//	"skills": "js, go"            → ["js", "go"]   (split on commas, trimmed)
//
// Both forms decode to the same ordered sequence.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	// Try the array form first.
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = arr
		return nil
	}

	// Fall back to the delimited-string form.
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*s = nil
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	*s = out
	return nil
}
