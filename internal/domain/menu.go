package domain

import "time"

type Menu struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MenuPatch carries the fields of a partial update. Nil fields are left as is.
type MenuPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

type MenuRefKind int

const (
	// MenuRefByID matches the menu primary key only.
	MenuRefByID MenuRefKind = iota + 1
	// MenuRefByName matches the exact menu name only.
	MenuRefByName
	// MenuRefAuto tries the value as a numeric id first and falls back to
	// an exact name match.
	MenuRefAuto
)

// MenuRef identifies a menu item in a scan action.
type MenuRef struct {
	Kind MenuRefKind
	ID   uint
	Name string
}

func MenuRefFromID(id uint) MenuRef {
	return MenuRef{Kind: MenuRefByID, ID: id}
}

func MenuRefFromName(name string) MenuRef {
	return MenuRef{Kind: MenuRefByName, Name: name}
}

func MenuRefFromText(text string) MenuRef {
	return MenuRef{Kind: MenuRefAuto, Name: text}
}

// Raw returns the reference the way the client sent it, for error reporting.
func (r MenuRef) Raw() any {
	if r.Kind == MenuRefByID {
		return r.ID
	}
	return r.Name
}
