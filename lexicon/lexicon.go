package lexicon

import (
	"sort"
	"strings"
	"sync"
)

// vernacular maps colloquial Hindi/Hinglish/English terms and phrases to
// canonical English clinical concepts. Multi-word phrases must be matched
// before single words, so scans iterate keys longest-first.
var vernacular = map[string][]string{
	// Parasites
	"keeda":     {"parasite", "anthelmintic", "antiparasitic", "worm", "dewormer"},
	"keede":     {"parasite", "anthelmintic", "antiparasitic", "worm", "dewormer"},
	"kide":      {"parasite", "anthelmintic", "antiparasitic", "worm", "dewormer"},
	"kira":      {"worm", "anthelmintic", "parasite"},
	"kire":      {"worm", "anthelmintic", "parasite"},
	"worm":      {"worm", "anthelmintic", "antiparasitic", "parasite"},
	"deworming": {"anthelmintic", "antiparasitic", "worm", "bolus"},
	"dewormer":  {"anthelmintic", "antiparasitic", "worm"},
	"cheechad":  {"tick", "ectoparasiticide", "permethrin"},
	"chittal":   {"tick", "ectoparasiticide"},
	"tick":      {"tick", "ectoparasiticide", "external parasite"},
	"jheen":     {"lice", "ectoparasiticide"},
	"lice":      {"lice", "ectoparasiticide"},
	"mange":     {"mange", "ectoparasiticide", "skin"},

	// Fever and infection
	"bukhar":     {"fever", "antibiotic", "antipyretic"},
	"bukhaar":    {"fever", "antibiotic", "antipyretic"},
	"tez bukhar": {"high fever", "antibiotic", "antipyretic", "critical"},
	"fever":      {"fever", "antipyretic", "antibiotic"},
	"infection":  {"antibiotic", "bacterial", "antimicrobial"},

	// Digestive
	"dast":         {"diarrhea", "antidiarrheal", "loose motions"},
	"pechish":      {"diarrhea", "dysentery", "antidiarrheal"},
	"diarrhea":     {"diarrhea", "antidiarrheal", "gastrointestinal"},
	"loose motion": {"diarrhea", "antidiarrheal"},
	"ulti":         {"vomiting", "gastro", "antiemetic"},
	"pet phula":    {"bloat", "tympany", "gastro", "emergency"},
	"afara":        {"bloat", "tympany", "anti-flatulent"},
	"bloat":        {"bloat", "tympany", "anti-flatulent", "emergency"},

	// Milk and udder
	"dudh kam": {"milk production", "udder", "mastitis", "galactagogue"},
	"dudh":     {"milk", "mastitis", "udder", "production"},
	"doodh":    {"milk", "mastitis", "udder", "production"},
	"teat":     {"mastitis", "udder", "teat"},
	"thaan":    {"mastitis", "udder", "teat", "milk"},
	"mastitis": {"mastitis", "udder", "antibiotic", "intramammary"},

	// Weakness and nutrition
	"kamzori":    {"vitamin", "supplement", "weakness", "tonic"},
	"kamjori":    {"vitamin", "supplement", "weakness", "tonic"},
	"sust":       {"weakness", "vitamin", "supplement", "liver tonic"},
	"weakness":   {"weakness", "vitamin", "supplement", "tonic"},
	"bhook":      {"appetite", "digestive", "tonic", "liver"},
	"khana nahi": {"appetite loss", "liver", "tonic", "supplement"},
	"chaara nahi": {"appetite loss", "digestive", "fever", "stress"},

	// Wounds and skin
	"zakhm":  {"wound", "topical", "antiseptic", "wound care"},
	"ghav":   {"wound", "topical", "antiseptic"},
	"ghao":   {"wound", "topical", "antiseptic"},
	"wound":  {"wound", "topical", "antiseptic", "dermatological"},
	"maggot": {"wound", "maggot", "topical"},
	"khujli": {"itch", "parasite", "antifungal", "skin", "dermatitis"},
	"khaj":   {"itch", "parasite", "skin", "mange"},
	"chamdi": {"skin", "dermatological", "topical"},
	"skin":   {"skin", "dermatological", "topical"},
	"daane":  {"allergy", "antihistamine", "urticaria", "skin"},
	"safai":  {"antiseptic", "wound", "topical"},

	// Respiratory
	"sans":        {"respiratory", "pneumonia", "breathing"},
	"khansi":      {"cough", "respiratory", "bronchitis"},
	"cough":       {"cough", "respiratory", "bronchitis"},
	"pneumonia":   {"respiratory", "pneumonia", "antibiotic"},

	// Bones and minerals
	"haddi":      {"calcium", "bone", "mineral", "phosphorus"},
	"calcium":    {"calcium", "mineral", "hypocalcemia", "milk fever"},
	"milk fever": {"hypocalcemia", "calcium", "emergency", "calving"},
	"mineral":    {"mineral", "supplement", "calcium", "trace element"},

	// Reproductive
	"garbhpat":        {"abortion", "reproductive", "progesterone"},
	"baar baar garam": {"repeat breeding", "reproductive", "hormone"},
	"bachcha nahi":    {"repeat breeding", "reproductive", "infertility"},
	"repeat breeding": {"repeat breeding", "reproductive", "hormone"},
	"byaana":          {"calving", "parturition", "oxytocin", "reproductive"},
	"calving":         {"calving", "parturition", "reproductive"},
	"heat":            {"estrus", "reproductive", "hormone"},
	"pyometra":        {"uterine", "intrauterine", "reproductive"},
	"metritis":        {"uterine", "intrauterine", "reproductive"},

	// Joints, swelling, pain
	"pair sujan":   {"foot rot", "joint infection", "anti-inflammatory"},
	"sujan":        {"inflammation", "anti-inflammatory", "swelling"},
	"dard":         {"pain", "analgesic", "anti-inflammatory"},
	"lameness":     {"joint", "anti-inflammatory", "analgesic"},
	"foot rot":     {"foot rot", "anti-inflammatory", "topical"},
	"aankhein laal": {"pink eye", "conjunctivitis", "vitamin a", "eye"},

	// Liver, allergy, gut
	"liver":     {"liver", "hepato", "tonic", "hepatoprotective"},
	"khoon ki kami": {"anemia", "liver", "tonic", "vitamin"},
	"allergy":   {"antihistamine", "anti-allergic", "urticaria"},
	"probiotic": {"probiotic", "digestive", "rumen", "gut"},
	"rumen":     {"probiotic", "digestive", "rumen"},

	// Safety, withdrawal, duration: genuine new queries, never follow-ups
	"pregnant":   {"pregnancy", "safety", "contraindication"},
	"garbh":      {"pregnancy", "safety", "contraindication"},
	"gabhit":     {"pregnancy", "safety", "contraindication"},
	"nuksan":     {"safety", "side effects", "contraindication"},
	"side effect": {"safety", "side effects", "contraindication"},
	"withdrawal": {"withdrawal", "lactation", "milk safety"},
	"doodh band": {"withdrawal", "lactation", "milk safety"},
	"kitne din":  {"duration", "course"},
	"kab tak":    {"duration", "course"},

	// Form factors and generic medicine words
	"bolus":     {"bolus", "tablet", "oral"},
	"injection": {"injection", "injectable", "parenteral"},
	"soap":      {"soap", "ectoparasiticide", "topical"},
	"dawai":     {"medicine", "treatment"},
	"dawa":      {"medicine", "treatment"},
	"ilaj":      {"treatment", "medicine"},
}

// species maps vernacular animal names to canonical species tokens.
var species = map[string][]string{
	"gaay":    {"cattle", "cow"},
	"gaye":    {"cattle", "cow"},
	"cow":     {"cattle", "cow"},
	"cattle":  {"cattle", "cow"},
	"bhains":  {"buffalo"},
	"buffalo": {"buffalo"},
	"bakri":   {"goat"},
	"goat":    {"goat"},
	"bhed":    {"sheep"},
	"sheep":   {"sheep"},
	"murgi":   {"poultry", "chicken"},
	"chicken": {"poultry", "chicken"},
	"poultry": {"poultry", "chicken"},
	"broiler": {"poultry", "chicken"},
	"ghoda":   {"horse"},
	"horse":   {"horse"},
	"suar":    {"pig"},
	"pig":     {"pig"},
	"kutta":   {"dog"},
	"kutte":   {"dog"},
	"dog":     {"dog"},
	"billi":   {"cat"},
	"cat":     {"cat"},
}

// forms maps packaging-form mentions to canonical form tokens.
var forms = map[string][]string{
	"bolus":     {"bolus"},
	"inj":       {"injection", "injectable"},
	"injection": {"injection", "injectable"},
	"tablet":    {"tablet", "oral"},
	"tab":       {"tablet", "oral"},
	"spray":     {"spray", "topical"},
	"powder":    {"powder"},
	"sachet":    {"powder"},
	"liquid":    {"liquid", "oral"},
	"syrup":     {"liquid", "oral"},
	"drench":    {"liquid", "oral"},
	"soap":      {"soap", "topical"},
	"gel":       {"gel", "topical"},
	"ointment":  {"gel", "topical"},
	"pour on":   {"pour-on", "topical"},
}

var (
	sortedVernacularOnce sync.Once
	sortedVernacularKeys []string
)

// vernacularKeys returns the lexicon keys sorted longest-first so that
// multi-word phrases win over their single-word prefixes.
func vernacularKeys() []string {
	sortedVernacularOnce.Do(func() {
		sortedVernacularKeys = make([]string, 0, len(vernacular))
		for k := range vernacular {
			sortedVernacularKeys = append(sortedVernacularKeys, k)
		}
		sort.Slice(sortedVernacularKeys, func(i, j int) bool {
			if len(sortedVernacularKeys[i]) != len(sortedVernacularKeys[j]) {
				return len(sortedVernacularKeys[i]) > len(sortedVernacularKeys[j])
			}
			return sortedVernacularKeys[i] < sortedVernacularKeys[j]
		})
	})
	return sortedVernacularKeys
}

// Lookup returns the clinical concepts for a single vernacular term,
// or nil when the term is unknown.
func Lookup(term string) []string {
	return vernacular[strings.ToLower(strings.TrimSpace(term))]
}

// ClinicalConcepts scans an utterance for every known vernacular term and
// returns the union of their clinical concepts, deduplicated, in scan order.
func ClinicalConcepts(text string) []string {
	lower := " " + Normalize(text) + " "
	seen := make(map[string]bool)
	var out []string
	for _, key := range vernacularKeys() {
		if !containsTerm(lower, key) {
			continue
		}
		for _, concept := range vernacular[key] {
			if !seen[concept] {
				seen[concept] = true
				out = append(out, concept)
			}
		}
	}
	return out
}

// SpeciesHints returns canonical species tokens mentioned in the utterance.
func SpeciesHints(text string) []string {
	return scanTable(text, species)
}

// FormHints returns canonical packaging-form tokens mentioned in the
// utterance.
func FormHints(text string) []string {
	return scanTable(text, forms)
}

func scanTable(text string, table map[string][]string) []string {
	lower := " " + Normalize(text) + " "
	seen := make(map[string]bool)
	var out []string
	for key, values := range table {
		if !containsTerm(lower, key) {
			continue
		}
		for _, v := range values {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

// containsTerm matches a term on word boundaries within pre-padded,
// normalized text. "tab" must not match inside "vegetable".
func containsTerm(padded, term string) bool {
	idx := 0
	for {
		i := strings.Index(padded[idx:], term)
		if i < 0 {
			return false
		}
		i += idx
		before := padded[i-1]
		after := byte(' ')
		if i+len(term) < len(padded) {
			after = padded[i+len(term)]
		}
		if before == ' ' && (after == ' ' || after == 's') {
			return true
		}
		idx = i + 1
	}
}
