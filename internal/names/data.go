package names

func c(code3, code2, name string, localized ...string) Country {
	country := Country{Code3: code3, Code2: code2, Name: name}
	if len(localized) > 0 {
		country.Names = make(map[string]string, len(localized)/2)
		for i := 0; i+1 < len(localized); i += 2 {
			country.Names[localized[i]] = localized[i+1]
		}
	}
	return country
}

var countryTable = []Country{
	c("ARG", "AR", "Argentina"),
	c("AUS", "AU", "Australia", "de", "Australien", "fr", "Australie"),
	c("AUT", "AT", "Austria", "de", "Österreich", "fr", "Autriche", "it", "Austria"),
	c("BEL", "BE", "Belgium", "de", "Belgien", "fr", "Belgique", "nl", "België"),
	c("BGR", "BG", "Bulgaria"),
	c("BRA", "BR", "Brazil", "pt", "Brasil", "es", "Brasil", "fr", "Brésil"),
	c("CAN", "CA", "Canada", "de", "Kanada"),
	c("CHE", "CH", "Switzerland", "de", "Schweiz", "fr", "Suisse", "it", "Svizzera"),
	c("CHL", "CL", "Chile"),
	c("CHN", "CN", "China", "fr", "Chine"),
	c("COL", "CO", "Colombia"),
	c("CRI", "CR", "Costa Rica"),
	c("CUB", "CU", "Cuba"),
	c("CZE", "CZ", "Czechia", "cs", "Česko", "de", "Tschechien"),
	c("DEU", "DE", "Germany", "de", "Deutschland", "fr", "Allemagne", "es", "Alemania", "it", "Germania"),
	c("DNK", "DK", "Denmark", "da", "Danmark", "de", "Dänemark"),
	c("DOM", "DO", "Dominican Republic"),
	c("DZA", "DZ", "Algeria", "fr", "Algérie"),
	c("ECU", "EC", "Ecuador"),
	c("EGY", "EG", "Egypt", "fr", "Égypte"),
	c("ESP", "ES", "Spain", "es", "España", "de", "Spanien", "fr", "Espagne", "it", "Spagna"),
	c("EST", "EE", "Estonia"),
	c("FIN", "FI", "Finland", "fi", "Suomi", "de", "Finnland"),
	c("FRA", "FR", "France", "de", "Frankreich", "es", "Francia", "it", "Francia"),
	c("GBR", "GB", "United Kingdom", "de", "Vereinigtes Königreich", "fr", "Royaume-Uni", "es", "Reino Unido"),
	c("GRC", "GR", "Greece", "de", "Griechenland", "fr", "Grèce"),
	c("GTM", "GT", "Guatemala"),
	c("HKG", "HK", "Hong Kong"),
	c("HRV", "HR", "Croatia", "de", "Kroatien"),
	c("HUN", "HU", "Hungary", "de", "Ungarn"),
	c("IDN", "ID", "Indonesia"),
	c("IND", "IN", "India", "de", "Indien", "fr", "Inde"),
	c("IRL", "IE", "Ireland", "de", "Irland", "fr", "Irlande"),
	c("IRN", "IR", "Iran"),
	c("ISL", "IS", "Iceland", "de", "Island"),
	c("ISR", "IL", "Israel"),
	c("ITA", "IT", "Italy", "it", "Italia", "de", "Italien", "fr", "Italie", "es", "Italia"),
	c("JAM", "JM", "Jamaica"),
	c("JPN", "JP", "Japan", "fr", "Japon", "es", "Japón"),
	c("KEN", "KE", "Kenya"),
	c("KOR", "KR", "South Korea"),
	c("LTU", "LT", "Lithuania"),
	c("LUX", "LU", "Luxembourg"),
	c("LVA", "LV", "Latvia"),
	c("MAR", "MA", "Morocco", "fr", "Maroc"),
	c("MEX", "MX", "Mexico", "es", "México", "fr", "Mexique"),
	c("MYS", "MY", "Malaysia"),
	c("NGA", "NG", "Nigeria"),
	c("NLD", "NL", "Netherlands", "nl", "Nederland", "de", "Niederlande", "fr", "Pays-Bas"),
	c("NOR", "NO", "Norway", "no", "Norge", "de", "Norwegen"),
	c("NZL", "NZ", "New Zealand"),
	c("PAK", "PK", "Pakistan"),
	c("PER", "PE", "Peru", "es", "Perú"),
	c("PHL", "PH", "Philippines"),
	c("POL", "PL", "Poland", "pl", "Polska", "de", "Polen", "fr", "Pologne"),
	c("PRT", "PT", "Portugal"),
	c("PRI", "PR", "Puerto Rico"),
	c("ROU", "RO", "Romania", "de", "Rumänien"),
	c("RUS", "RU", "Russia", "de", "Russland", "fr", "Russie"),
	c("SAU", "SA", "Saudi Arabia"),
	c("SGP", "SG", "Singapore"),
	c("SRB", "RS", "Serbia"),
	c("SVK", "SK", "Slovakia"),
	c("SVN", "SI", "Slovenia"),
	c("SWE", "SE", "Sweden", "sv", "Sverige", "de", "Schweden", "fr", "Suède"),
	c("THA", "TH", "Thailand"),
	c("TUN", "TN", "Tunisia", "fr", "Tunisie"),
	c("TUR", "TR", "Turkey", "tr", "Türkiye", "de", "Türkei"),
	c("TWN", "TW", "Taiwan"),
	c("UKR", "UA", "Ukraine"),
	c("URY", "UY", "Uruguay"),
	c("USA", "US", "United States", "de", "Vereinigte Staaten", "fr", "États-Unis", "es", "Estados Unidos"),
	c("VEN", "VE", "Venezuela"),
	c("VNM", "VN", "Vietnam"),
	c("ZAF", "ZA", "South Africa", "de", "Südafrika"),
}

var countryAliases = []struct {
	name  string
	code3 string
}{
	{"America", "USA"},
	{"United States of America", "USA"},
	{"Great Britain", "GBR"},
	{"Britain", "GBR"},
	{"England", "GBR"},
	{"Scotland", "GBR"},
	{"Wales", "GBR"},
	{"Northern Ireland", "GBR"},
	{"UK", "GBR"},
	{"Holland", "NLD"},
	{"Czech Republic", "CZE"},
	{"Korea", "KOR"},
}

// adminDivisions is the plain admin-name table: country -> code -> name.
var adminDivisions = map[string]map[string]string{
	"USA": {
		"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
		"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
		"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
		"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
		"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
		"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
		"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska",
		"NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
		"NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
		"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island",
		"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
		"UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
		"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
	},
	"CAN": {
		"AB": "Alberta", "BC": "British Columbia", "MB": "Manitoba", "NB": "New Brunswick",
		"NL": "Newfoundland and Labrador", "NS": "Nova Scotia", "NT": "Northwest Territories",
		"NU": "Nunavut", "ON": "Ontario", "PE": "Prince Edward Island", "QC": "Quebec",
		"SK": "Saskatchewan", "YT": "Yukon",
	},
	"AUS": {
		"ACT": "Australian Capital Territory", "NSW": "New South Wales", "NT": "Northern Territory",
		"QLD": "Queensland", "SA": "South Australia", "TAS": "Tasmania", "VIC": "Victoria",
		"WA": "Western Australia",
	},
	"GBR": {
		"ENG": "England", "NIR": "Northern Ireland", "SCT": "Scotland", "WLS": "Wales",
	},
}

// localizedAdminNames maps "lang:CCC.CODE" to a division name.
var localizedAdminNames = map[string]string{
	"en:DEU.01": "Baden-Württemberg",
	"en:DEU.02": "Bavaria",
	"de:DEU.02": "Bayern",
	"en:DEU.16": "Berlin",
	"en:DEU.04": "Hamburg",
	"en:DEU.05": "Hesse",
	"de:DEU.05": "Hessen",
	"en:DEU.07": "North Rhine-Westphalia",
	"de:DEU.07": "Nordrhein-Westfalen",
	"en:FRA.11": "Île-de-France",
	"en:FRA.84": "Auvergne-Rhône-Alpes",
	"en:FRA.93": "Provence-Alpes-Côte d'Azur",
	"en:ITA.09": "Lombardy",
	"it:ITA.09": "Lombardia",
	"en:ITA.07": "Lazio",
	"en:ITA.16": "Tuscany",
	"it:ITA.16": "Toscana",
	"en:ESP.29": "Madrid",
	"en:ESP.56": "Catalonia",
	"es:ESP.56": "Cataluña",
	"en:MEX.09": "Mexico City",
	"es:MEX.09": "Ciudad de México",
	"en:CAN.QC": "Quebec",
	"fr:CAN.QC": "Québec",
}

// postalPatterns holds anchored, upper-case postal-code patterns per country.
var postalPatterns = map[string]string{
	"USA": `^\d{5}(-\d{4})?$`,
	"CAN": `^[A-Z]\d[A-Z] ?\d[A-Z]\d$`,
	"GBR": `^[A-Z]{1,2}\d[A-Z\d]? ?\d[A-Z]{2}$`,
	"IRL": `^[A-Z]\d[\dW] ?[A-Z\d]{4}$`,
	"DEU": `^\d{5}$`,
	"FRA": `^\d{5}$`,
	"ITA": `^\d{5}$`,
	"ESP": `^\d{5}$`,
	"MEX": `^\d{5}$`,
	"FIN": `^\d{5}$`,
	"NLD": `^\d{4} ?[A-Z]{2}$`,
	"BEL": `^\d{4}$`,
	"CHE": `^\d{4}$`,
	"AUT": `^\d{4}$`,
	"DNK": `^\d{4}$`,
	"NOR": `^\d{4}$`,
	"AUS": `^\d{4}$`,
	"NZL": `^\d{4}$`,
	"SWE": `^\d{3} ?\d{2}$`,
	"POL": `^\d{2}-\d{3}$`,
	"PRT": `^\d{4}-\d{3}$`,
	"JPN": `^\d{3}-\d{4}$`,
	"BRA": `^\d{5}-?\d{3}$`,
	"IND": `^\d{6}$`,
}
