// Package category is the static lookup table for event categories:
// default duration, embed styling and the legacy aliases that still
// resolve to each canonical key. Pure lookups, no mutable state.
package category

// Metadata describes one event category.
type Metadata struct {
	Key        string
	Color      int
	Icon       string
	Desc       string
	LegacyKeys []string
	// DurationMinutes is applied when a request omits an explicit
	// duration. Zero means instantaneous / unknown.
	DurationMinutes int
	// Urgent categories use the shortened 15-minute early window
	// instead of the standard 30-minute one.
	Urgent bool
}

const (
	DefaultColor = 0x3498db
	DefaultIcon  = "https://img.icons8.com/color/96/calendar--v1.png"
)

var catalog = []Metadata{
	{
		Key:             "KvK & Castle / KvK & 王城戰",
		Color:           0xe74c3c,
		Icon:            "https://img.icons8.com/color/96/sword.png",
		Desc:            "War Event",
		LegacyKeys:      []string{"KvK & Castle"},
		DurationMinutes: 360,
	},
	{
		Key:             "Bear / 熊",
		Color:           0xe67e22,
		Icon:            "https://img.icons8.com/color/96/bear.png",
		Desc:            "Bear Trap",
		LegacyKeys:      []string{"Bear"},
		DurationMinutes: 30,
	},
	{
		Key:             "Swordland / 聖劍",
		Color:           0xe74c3c,
		Icon:            "https://img.icons8.com/color/96/sword.png",
		Desc:            "Battle",
		LegacyKeys:      []string{"Swordland"},
		DurationMinutes: 60,
	},
	{
		Key:             "Tri-Alliance / 三盟",
		Color:           0xe74c3c,
		Icon:            "https://img.icons8.com/color/96/sword.png",
		Desc:            "Alliance Battle",
		LegacyKeys:      []string{"Tri-Alliance"},
		DurationMinutes: 60,
	},
	{
		Key:             "Sanctuary / 遺跡",
		Color:           0x9b59b6,
		Icon:            "https://img.icons8.com/color/96/ruins.png",
		Desc:            "Ruins",
		LegacyKeys:      []string{"Sanctuary"},
		DurationMinutes: 35,
	},
	{
		Key:             "Viking / 維京",
		Color:           0xf1c40f,
		Icon:            "https://img.icons8.com/color/96/viking-helmet.png",
		Desc:            "PVE",
		LegacyKeys:      []string{"Viking"},
		DurationMinutes: 40,
	},
	{
		Key:        "Arena / 競技場",
		Color:      0xe74c3c,
		Icon:       "https://img.icons8.com/color/96/boxing.png",
		Desc:       "PVP Event",
		LegacyKeys: []string{"Arena"},
	},
	{
		Key:        "Fishing / 釣魚",
		Color:      0x2ecc71,
		Icon:       "https://img.icons8.com/color/96/fishing-pole.png",
		Desc:       "Social",
		LegacyKeys: []string{"Fishing"},
	},
	{
		Key:        "Shield / 護盾",
		Color:      0xe74c3c,
		Icon:       "https://img.icons8.com/color/96/shield.png",
		Desc:       "Urgent Alert",
		LegacyKeys: []string{"Shield"},
		Urgent:     true,
	},
	{
		Key:        "Farm / 採集",
		Color:      0x2ecc71,
		Icon:       "https://img.icons8.com/color/96/field.png",
		Desc:       "Resources",
		LegacyKeys: []string{"Farm"},
	},
	{
		Key:        "General / 一般",
		Color:      DefaultColor,
		Icon:       DefaultIcon,
		Desc:       "Custom Event",
		LegacyKeys: []string{"General"},
	},
}

var byKey = func() map[string]*Metadata {
	m := make(map[string]*Metadata, len(catalog)*2)
	for i := range catalog {
		m[catalog[i].Key] = &catalog[i]
		for _, legacy := range catalog[i].LegacyKeys {
			m[legacy] = &catalog[i]
		}
	}
	return m
}()

var defaultMeta = Metadata{
	Key:   "General / 一般",
	Color: DefaultColor,
	Icon:  DefaultIcon,
	Desc:  "Custom Event",
}

// Resolve returns the metadata for an event name, matching the canonical
// key first and legacy aliases second. Unknown names get the default.
func Resolve(name string) Metadata {
	if meta, ok := byKey[name]; ok {
		return *meta
	}
	return defaultMeta
}

// DefaultDuration returns the category default duration, in minutes, for
// an event name. Unknown names default to zero.
func DefaultDuration(name string) int {
	if meta, ok := byKey[name]; ok {
		return meta.DurationMinutes
	}
	return 0
}

// IsUrgent reports whether the name resolves to an urgent category.
func IsUrgent(name string) bool {
	if meta, ok := byKey[name]; ok {
		return meta.Urgent
	}
	return false
}
