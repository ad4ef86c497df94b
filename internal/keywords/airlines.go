package keywords

// AirlineKeywords maps canonical airline names to their detection keywords.
// Loaded once at process start, never mutated.
var AirlineKeywords = map[string][]string{
	"Indigo": {
		"indigo", "6e", "indigo airlines", "indigo air",
		"indigo flights", "indigo fleet", "indigo pilots",
	},
	"Air India": {
		"air india", "air india express", "air india flights",
		"air india fleet", "tata group", "tata airlines",
	},
	"SpiceJet": {
		"spicejet", "sg", "spice jet", "spicejet flights",
		"spicejet fleet", "spicejet pilots",
	},
	"Vistara": {
		"vistara", "uk", "vistara flights", "vistara fleet",
		"tata sia", "tata singapore airlines",
	},
	"Go First": {
		"go first", "g8", "goair", "go air", "go first flights",
	},
	"Akasa Air": {
		"akasa", "akasa air", "qp", "akasa flights", "akasa fleet",
	},
	"Alliance Air": {
		"alliance air", "9i", "alliance air flights",
	},
	"AirAsia India": {
		"airasia india", "i5", "airasia", "air asia india",
	},
	"TruJet": {
		"trujet", "2t", "tru jet", "trujet flights",
	},
	"Star Air": {
		"star air", "s5", "star air flights",
	},
	"Emirates": {
		"emirates", "emirates airlines", "emirates air",
		"emirates flights", "emirates fleet", "emirates pilots",
	},
	"Qatar Airways": {
		"qatar airways", "qatar air", "qatar flights", "qatar airline",
	},
	"Singapore Airlines": {
		"singapore airlines", "singapore air", "sia", "singapore airline",
	},
	"Lufthansa": {
		"lufthansa", "lufthansa airlines", "lufthansa flights", "lufthansa air",
	},
	"British Airways": {
		"british airways", "british air", "british airways flights",
	},
	"Air France": {
		"air france", "air france flights", "air france airlines",
	},
	"Etihad": {
		"etihad", "etihad airways", "etihad flights", "etihad air",
	},
}
