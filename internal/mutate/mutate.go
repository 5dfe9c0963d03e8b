// Package mutate holds the pure validation and normalization rules applied
// before anything reaches the persistence collaborator.
package mutate

import (
	"net/url"
	"strings"

	"linkdeck-cli/internal/model"
)

// ValidationError rejects bad input before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// ValidateNewItem checks the fields a user supplies when creating an item.
func ValidateNewItem(title, rawURL string) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError{Field: "title", Reason: "required"}
	}
	return ValidateURL(rawURL)
}

func ValidateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ValidationError{Field: "url", Reason: "required"}
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ValidationError{Field: "url", Reason: "not a valid URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{Field: "url", Reason: "scheme must be http or https"}
	}
	return nil
}

func ValidateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Reason: "required"}
	}
	return nil
}

// NormalizeTitle trims and upper-cases, matching how cards render titles.
func NormalizeTitle(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeTags splits on commas, trims, upper-cases, and drops empties.
func NormalizeTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinTags is the display form used when a tag set enters edit mode.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// NewItem assembles a validated, normalized item ready for upsert. The id is
// left empty; the persistence collaborator assigns one on create.
func NewItem(title, rawURL, description, category, tags string, priority model.Priority) (model.Item, error) {
	if err := ValidateNewItem(title, rawURL); err != nil {
		return model.Item{}, err
	}
	if priority == "" {
		priority = model.PriorityMedium
	}
	return model.Item{
		Title:       NormalizeTitle(title),
		URL:         strings.TrimSpace(rawURL),
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Tags:        NormalizeTags(tags),
		Priority:    priority,
		Health:      model.Health{Status: model.HealthUnknown},
	}, nil
}
