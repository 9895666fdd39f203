package actor

var classIcons = map[string]string{
	"Fighter":       "⚔️",
	"Wizard":        "🔮",
	"Cleric":        "⛪",
	"Sorcerer":      "✨",
	"Moon Sorcerer": "🌙",
	"Warlock":       "👁️",
	"Rogue":         "🗡️",
	"Paladin":       "🛡️",
}

// ClassIcon returns the glyph shown next to a class name.
func ClassIcon(class string) string {
	if icon, ok := classIcons[class]; ok {
		return icon
	}
	return "🎭"
}

var subclassDescriptions = map[string]map[string]string{
	"Sorcerer": {
		"Draconic Bloodline": "Ancient dragon magic courses through your bloodline",
		"Wild Magic":         "Chaotic magical energies surge unpredictably within you",
		"Divine Soul":        "Touched by divine power, blessed by the gods themselves",
	},
	"Warlock": {
		"The Great Wyrm":     "Bound in service to an ancient and powerful dragon",
		"The Fiend":          "Your soul is pledged to a denizen of the Lower Planes",
		"The Stellar Powers": "Connected to the cosmic forces beyond the world",
	},
}

// SubclassDescription returns flavour text for a class/subclass pair.
func SubclassDescription(class, subclass string) string {
	if class == "Moon Sorcerer" {
		return "Lunar magic flows through your veins"
	}
	if d, ok := subclassDescriptions[class][subclass]; ok {
		return d
	}
	return "A specialized practitioner of your chosen path"
}
