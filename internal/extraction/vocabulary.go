package extraction

import "regexp"

// stopWords are function words and generic posting filler. Role nouns and a few
// technical adjectives appear here too; phrase validity exempts them at the
// end and start of a phrase respectively.
var stopWords = toSet(
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "has", "he",
	"in", "is", "it", "its", "of", "on", "or", "that", "the", "to", "was", "will",
	"with", "you", "your", "their", "our", "this", "these", "those", "have", "had",
	"been", "can", "could", "should", "would", "may", "must", "we", "us", "they",
	"them", "who", "what", "which", "when", "where", "how", "why", "all", "any",
	"both", "each", "more", "most", "other", "some", "such", "no", "not", "only",
	"own", "same", "so", "than", "too", "very", "just", "but", "if", "into",
	"through", "during", "before", "after", "above", "below", "up", "down", "out",
	"over", "under", "again", "then", "once", "here", "there", "about", "do",
	"does", "did", "doing", "being", "am", "were", "she", "his", "her",
	"i", "me", "my", "also", "well", "etc", "per", "via", "within", "across",
	"including", "include", "includes", "strong", "excellent", "good", "great",
	"solid", "proven", "new", "various", "multiple", "using", "use", "ability",
	"able", "work", "working", "experience", "knowledge", "understanding",
	"skills", "skill", "plus", "preferred", "required", "requirements",
	"responsibilities", "qualifications", "years", "year", "high", "low", "real",
	"open", "full", "cross", "end", "engineer", "engineers", "developer",
	"developers", "manager", "managers", "designer", "designers", "analyst",
	"analysts", "architect", "lead", "specialist", "consultant",
)

// technicalAdjectives may open a phrase even when they are stop words.
var technicalAdjectives = toSet(
	"continuous", "distributed", "test-driven", "object-oriented", "cloud-native",
	"real-time", "full-stack", "front-end", "back-end", "event-driven", "scalable",
	"automated", "relational", "functional", "responsive", "serverless", "embedded",
	"concurrent", "parallel", "statistical", "high", "low", "real", "open", "full",
	"cross", "end",
)

// roleNouns may close a phrase even when they are stop words.
var roleNouns = toSet(
	"engineer", "engineers", "developer", "developers", "manager", "managers",
	"designer", "designers", "analyst", "analysts", "architect", "lead",
	"specialist", "consultant",
)

// genericNoiseWords are rejected as single-word keywords.
var genericNoiseWords = toSet(
	"team", "teams", "client", "clients", "industry", "company", "companies",
	"role", "roles", "job", "jobs", "candidate", "candidates", "position",
	"opportunity", "opportunities", "environment", "business", "people", "world",
	"day", "days", "time", "things", "way", "help", "make", "makes", "based",
	"ensure", "provide", "support", "join", "looking", "apply", "offer",
	"benefits", "salary", "location", "remote", "hybrid", "office", "related",
	"relevant", "equivalent", "degree", "field", "similar", "like", "want",
	"need", "needs", "get", "take", "part", "range", "level", "ideal",
)

// boilerplatePhrases mark marketing or legal text; any candidate containing one is dropped.
var boilerplatePhrases = []string{
	"about us", "about the company", "who we are", "equal opportunity",
	"equal employment", "affirmative action", "without regard to",
	"sexual orientation", "gender identity", "national origin", "veteran status",
	"reasonable accommodation", "apply now", "click here", "our mission",
	"our values", "benefits include", "we offer", "what we offer", "paid time off",
	"health insurance", "dental and vision", "401k", "competitive salary",
	"why join us", "privacy policy", "all qualified applicants",
}

// noisePhrasePatterns reject phrases with a leading preposition or a generic filler opener.
var noisePhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(in|on|at|for|with|to|from|of|by|about|into|through|within|across|as|via)\b`),
	regexp.MustCompile(`(?i)^(we are|we're|you will|you'll|you are|you're|we offer|this role|the ideal|our team|join our|looking for|able to|ability to|work with|such as)\b`),
	regexp.MustCompile(`(?i)\b(etc|e\.g|i\.e)\.?$`),
}

// criticalPhrases are extracted as whole units before word splitting.
var criticalPhrases = compileAll(
	`continuous integration`,
	`continuous (?:delivery|deployment)`,
	`react native`,
	`unit testing`,
	`integration testing`,
	`end[- ]to[- ]end testing`,
	`test[- ]driven development`,
	`behaviou?r[- ]driven development`,
	`object[- ]oriented (?:programming|design)`,
	`machine learning`,
	`deep learning`,
	`natural language processing`,
	`computer vision`,
	`data science`,
	`data analysis`,
	`data engineering`,
	`data visualization`,
	`distributed systems`,
	`system design`,
	`cloud computing`,
	`version control`,
	`project management`,
	`product management`,
	`stakeholder management`,
	`customer service`,
	`problem[- ]solving`,
	`critical thinking`,
	`time management`,
	`attention to detail`,
	`restful apis?`,
	`spring boot`,
	`ruby on rails`,
	`sql server`,
	`google cloud platform`,
	`amazon web services`,
	`infrastructure as code`,
	`site reliability engineering`,
	`a/b testing`,
	`ci/cd`,
	`tcp/ip`,
	`ui/ux`,
	`pl/sql`,
	`node\.js`,
	`\.net`,
	`c\+\+`,
	`c#`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(` + p + `)(?:[^\pL\pN+#]|$)`)
	}
	return out
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
