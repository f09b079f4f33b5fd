package normalize

// whitelist holds short high-value technical tokens kept verbatim.
var whitelist = map[string]bool{
	"c#":   true,
	"f#":   true,
	"go":   true,
	"ai":   true,
	"ml":   true,
	"r":    true,
	"c":    true,
	"ui":   true,
	"ux":   true,
	"qa":   true,
	"bi":   true,
	"ar":   true,
	"vr":   true,
	"ios":  true,
	"aws":  true,
	"gcp":  true,
	"sql":  true,
	"api":  true,
	"etl":  true,
	"nlp":  true,
	"seo":  true,
	"git":  true,
	"php":  true,
	"css":  true,
	"sas":  true,
	"erp":  true,
	"crm":  true,
	"iot":  true,
	"llm":  true,
	"rest": true,
}

type substitution struct {
	pattern     string
	replacement string
}

// specialSubstitutions must stay ordered: no replacement may contain a later pattern.
var specialSubstitutions = []substitution{
	{"c++", "cpp"},
	{"c#", "csharp"},
	{"f#", "fsharp"},
	{".net", "dotnet"},
	{"node.js", "nodejs"},
	{"vue.js", "vuejs"},
	{"next.js", "nextjs"},
	{"express.js", "express"},
	{"ci/cd", "cicd"},
	{"tcp/ip", "tcpip"},
	{"ui/ux", "uiux"},
	{"pl/sql", "plsql"},
	{"a/b", "ab"},
}

// synonyms maps collapsed variants to canonical keys. Canonical values are
// never keys themselves, which keeps Normalize idempotent.
var synonyms = map[string]string{
	"js":                     "javascript",
	"ecmascript":             "javascript",
	"ts":                     "typescript",
	"reactjs":                "react",
	"vuejs":                  "vue",
	"angularjs":              "angular",
	"nextjs":                 "next",
	"golang":                 "go",
	"k8s":                    "kubernetes",
	"postgres":               "postgresql",
	"mongo":                  "mongodb",
	"py":                     "python",
	"amazonwebservices":      "aws",
	"googlecloud":            "gcp",
	"googlecloudplatform":    "gcp",
	"microsoftazure":         "azure",
	"continuousintegration":  "cicd",
	"machinelearning":        "ml",
	"artificialintelligence": "ai",
	"tdd":                    "testdrivendevelopment",
	"testdriven":             "testdrivendevelopment",
	"uxui":                   "uiux",
	"dotnetcore":             "dotnet",
	"aspdotnet":              "dotnet",
}
