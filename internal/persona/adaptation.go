package persona

// Adaptation is the fixed response-shaping rule set for one persona. The
// answer generator folds these into its prompt; nothing here is learned or
// dynamic.
type Adaptation struct {
	Audience    string
	Tone        string
	Complexity  string
	Terminology string
	Guidelines  []string
}

var adaptations = map[Persona]Adaptation{
	Newbie: {
		Audience:    "Complete beginner to fantasy football",
		Tone:        "encouraging",
		Complexity:  "simple",
		Terminology: "everyday language, fantasy terms explained",
		Guidelines: []string{
			"Explain fantasy terms simply",
			"Use an encouraging, friendly tone",
			"Avoid complex stats",
			"Give step-by-step guidance",
			"Build confidence",
		},
	},
	Rookie: {
		Audience:    "Casual player who wants to impress friends",
		Tone:        "confident",
		Complexity:  "straightforward",
		Terminology: "common fantasy terms (start/sit, waiver wire)",
		Guidelines: []string{
			"Give confident, straightforward advice",
			"Include simple reasoning they can repeat",
			"Help them sound knowledgeable",
			"Focus on clear start/sit decisions",
		},
	},
	Dabbler: {
		Audience:    "Stats-savvy player who wants data-driven analysis",
		Tone:        "analytical",
		Complexity:  "data-driven",
		Terminology: "statistical concepts and trends",
		Guidelines: []string{
			"Include specific statistics and trends",
			"Reference analytical concepts",
			"Mention historical performance",
			"Give data-backed reasoning",
		},
	},
	Professional: {
		Audience:    "Serious player who wants advanced strategy",
		Tone:        "sophisticated",
		Complexity:  "advanced",
		Terminology: "advanced metrics, game theory, ownership",
		Guidelines: []string{
			"Discuss advanced metrics and game theory",
			"Mention contrarian plays and leverage",
			"Reference ownership percentages",
			"Give sophisticated analysis",
		},
	},
}

// AdaptationFor returns the response-shaping rules for p. Unknown personas
// get the rookie rules, matching the classifier's fallback.
func AdaptationFor(p Persona) Adaptation {
	if a, ok := adaptations[p]; ok {
		return a
	}
	return adaptations[Rookie]
}
