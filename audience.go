package bookshelf

import (
	"database/sql/driver"
	"fmt"
)

// Audience classifies the reader group a book is written for.
type Audience int

// The zero Audience is unset and is stored as AudienceAll.
const (
	AudienceChildren Audience = iota + 1
	AudienceYoungAdult
	AudienceAdult
	AudienceAll
)

var audienceNames = map[Audience]string{
	AudienceChildren:   "CHILDREN",
	AudienceYoungAdult: "YOUNG_ADULT",
	AudienceAdult:      "ADULT",
	AudienceAll:        "ALL",
}

// Audiences lists every valid audience in declaration order.
func Audiences() []Audience {
	return []Audience{AudienceChildren, AudienceYoungAdult, AudienceAdult, AudienceAll}
}

// ParseAudience maps a stored name such as "YOUNG_ADULT" onto its Audience.
func ParseAudience(name string) (Audience, error) {
	for _, audience := range Audiences() {
		if audienceNames[audience] == name {
			return audience, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAudience, name)
}

func (a Audience) Valid() bool {
	_, ok := audienceNames[a]
	return ok
}

func (a Audience) String() string {
	if name, ok := audienceNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Audience(%d)", int(a))
}

// orDefault returns AudienceAll for the unset audience.
func (a Audience) orDefault() Audience {
	if a == 0 {
		return AudienceAll
	}
	return a
}

func (a Audience) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAudience, int(a))
	}
	return []byte(a.String()), nil
}

func (a *Audience) UnmarshalText(text []byte) error {
	audience, err := ParseAudience(string(text))
	if err != nil {
		return err
	}
	*a = audience
	return nil
}

// Value stores the audience by name. Values outside the closed set are
// rejected before they reach the database.
func (a Audience) Value() (driver.Value, error) {
	audience := a.orDefault()
	if !audience.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAudience, int(a))
	}
	return audience.String(), nil
}

func (a *Audience) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	case nil:
		*a = AudienceAll
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidAudience, src)
	}
}
