package domain

type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
	GenderOther     Gender = "other"
)

// Genders lists every gender tag in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderNonBinary, GenderOther}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderOther:
		return true
	}
	return false
}

type LookingFor string

const (
	LookingForRelationship LookingFor = "relationship"
	LookingForCasual       LookingFor = "casual"
	LookingForFriendship   LookingFor = "friendship"
	LookingForNotSure      LookingFor = "not-sure"
	LookingForParty        LookingFor = "party"
)

var LookingForValues = []LookingFor{
	LookingForRelationship,
	LookingForCasual,
	LookingForFriendship,
	LookingForNotSure,
	LookingForParty,
}

func (l LookingFor) Valid() bool {
	switch l {
	case LookingForRelationship, LookingForCasual, LookingForFriendship, LookingForNotSure, LookingForParty:
		return true
	}
	return false
}

// OptionMeta is the display metadata the client renders for an enumeration tag.
type OptionMeta struct {
	Value    string `json:"value"`
	LabelKey string `json:"label_key"`
	Icon     string `json:"icon,omitempty"`
}

var GenderOptions = map[Gender]OptionMeta{
	GenderMale:      {Value: string(GenderMale), LabelKey: "gender.male"},
	GenderFemale:    {Value: string(GenderFemale), LabelKey: "gender.female"},
	GenderNonBinary: {Value: string(GenderNonBinary), LabelKey: "gender.nonBinary"},
	GenderOther:     {Value: string(GenderOther), LabelKey: "gender.other"},
}

var LookingForOptions = map[LookingFor]OptionMeta{
	LookingForRelationship: {Value: string(LookingForRelationship), LabelKey: "lookingFor.relationship", Icon: "heart"},
	LookingForCasual:       {Value: string(LookingForCasual), LabelKey: "lookingFor.casual", Icon: "coffee"},
	LookingForFriendship:   {Value: string(LookingForFriendship), LabelKey: "lookingFor.friendship", Icon: "users"},
	LookingForNotSure:      {Value: string(LookingForNotSure), LabelKey: "lookingFor.notSure", Icon: "help-circle"},
	LookingForParty:        {Value: string(LookingForParty), LabelKey: "lookingFor.party", Icon: "party-popper"},
}

// AvailableHobbies is the fixed hobby catalog.
var AvailableHobbies = []string{
	"Travel", "Photography", "Cooking", "Fitness", "Reading",
	"Music", "Art", "Gaming", "Hiking", "Yoga",
	"Dancing", "Movies", "Sports", "Coffee", "Wine",
	"Nature", "Beach", "Camping", "Pets", "Fashion",
}

func IsKnownHobby(hobby string) bool {
	for _, h := range AvailableHobbies {
		if h == hobby {
			return true
		}
	}
	return false
}
