package assistant

import (
	"sort"
	"strings"
)

// Built-in reference notes the agents are grounded on. Entries are matched
// by keyword against the condition, symptoms and history of a case.
var knowledge = map[string]string{
	"acne":       "Acne: topical retinoids and benzoyl peroxide first line; oral antibiotics for moderate inflammatory disease; isotretinoin for severe or scarring acne.",
	"dermatitis": "Dermatitis: identify and avoid triggers; emollients; short courses of topical corticosteroids for flares.",
	"eczema":     "Eczema: daily emollients; topical corticosteroids or calcineurin inhibitors for flares; treat secondary infection.",
	"fungal":     "Fungal infection: topical azoles for limited disease; oral terbinafine or itraconazole for nail or extensive involvement.",
	"itch":       "Pruritus: rule out xerosis and infestation; emollients and non-sedating antihistamines.",
	"melasma":    "Melasma: strict photoprotection; hydroquinone or triple-combination cream; avoid aggressive procedures.",
	"psoriasis":  "Psoriasis: topical corticosteroids with vitamin D analogues; phototherapy or systemic agents for extensive disease.",
	"rash":       "Rash: assess distribution, onset and exposures; exclude drug reaction before starting new medication.",
	"rosacea":    "Rosacea: avoid triggers; topical metronidazole, azelaic acid or ivermectin; oral doxycycline for papulopustular disease.",
	"urticaria":  "Urticaria: second-generation antihistamines, up-dosed if needed; look for triggers in acute cases.",
}

const generalKnowledge = "General: common dermatological condition; typical treatment approaches include topical medications; regular monitoring recommended; lifestyle modifications may help."

// medicalContext returns the reference notes relevant to c, most specific
// first, ending with the general note.
func medicalContext(c Case) string {
	text := strings.ToLower(c.Condition + " " + strings.Join(c.Symptoms, " ") + " " + c.MedicalHistory)

	keys := make([]string, 0, len(knowledge))
	for k := range knowledge {
		if strings.Contains(text, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		lines = append(lines, knowledge[k])
	}
	lines = append(lines, generalKnowledge)
	return strings.Join(lines, "\n")
}
