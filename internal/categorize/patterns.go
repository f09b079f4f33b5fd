package categorize

import "regexp"

// softPatterns recognize interpersonal and behavioral skills.
var softPatterns = compile(
	`leadership|leading teams|people management`,
	`communications?|communicator|verbal|presentation skills?|public speaking|storytelling`,
	`collaborat(?:ion|ive|ing)|teamwork|team player|cross functional`,
	`problem solving|critical thinking|analytical(?: skills| thinking)?|decision making|judgment`,
	`time management|prioritization|multitasking|organi[sz]ed|organi[sz]ation(?:al)? skills`,
	`adaptability|adaptable|flexibility|resilience|growth mindset`,
	`creativity|creative thinking|innovative|curiosity`,
	`detail oriented|attention to detail|self motivated|self starter|proactive|initiative|ownership|accountability|work ethic`,
	`strategic(?: thinking| planning)?`,
	`interpersonal|empathy|emotional intelligence|relationship building|conflict resolution|negotiation|persuasion|influenc(?:e|ing)`,
	`mentor(?:ing|ship)?|coaching|stakeholder management|customer focus(?:ed)?|customer service`,
)

// hardPatterns recognize tools, languages, platforms, methods, and credentials.
var hardPatterns = compile(
	// languages
	`javascript|typescript|python|java|c\+\+|cpp|c#|csharp|ruby|go|golang|rust|php|swift|kotlin|scala|perl|haskell|elixir|erlang|clojure|dart|lua|matlab|r|sql|bash|shell|powershell|html5?|css3?|sass|solidity|objective c`,
	// frameworks and libraries
	`react(?: native)?|reactjs|vue|vuejs|angular|svelte|next\.?js|nuxt|node\.?js|nodejs|express|django|flask|fastapi|spring(?: boot)?|\.net|asp\.net|dotnet|rails|ruby on rails|laravel|symfony|jquery|redux|graphql|grpc|tailwind|bootstrap|pandas|numpy|scikit learn|sklearn|tensorflow|pytorch|keras|spark|pyspark|hadoop|airflow|dbt`,
	// tools and platforms
	`git|github|gitlab|bitbucket|docker|kubernetes|k8s|helm|aws|azure|gcp|google cloud|jenkins|ci/cd|cicd|terraform|ansible|puppet|chef|linux|unix|nginx|kafka|rabbitmq|circleci|github actions|prometheus|grafana|datadog|splunk|new relic|jira|confluence|figma|sketch|photoshop|illustrator|tableau|power bi|looker|excel|salesforce|hubspot|crm|erp|sap|netsuite|quickbooks|zendesk|workday|google analytics|seo|sem|snowflake|databricks|bigquery|redshift|lambda|s3|ec2|serverless|microservices|rest(?:ful)?(?: apis?)?|apis?|webpack|vite`,
	// databases
	`postgresql|postgres|mysql|mariadb|sqlite|mongodb|redis|elasticsearch|oracle|dynamodb|cassandra|couchbase|neo4j|firebase|supabase|sql server|nosql`,
	// methodologies
	`agile|scrum|kanban|devops|devsecops|mlops|lean|six sigma|test driven(?: development)?|tdd|bdd|unit testing|integration testing|continuous (?:integration|delivery|deployment)|object oriented|oop|system design|distributed systems|machine learning|deep learning|nlp|natural language processing|computer vision|data (?:science|analysis|engineering|visualization|modeling|pipelines?)|etl|statistics|a/b testing`,
	// certifications
	`aws certified|pmp|cissp|cism|cisa|comptia|ccna|ccnp|cka|ckad|cpa|cfa|itil|microsoft certified|google certified|certified \w+|certification|certificate`,
)

func compile(groups ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(groups))
	for i, g := range groups {
		out[i] = regexp.MustCompile(`(?i)(?:^|[^a-z0-9+#])(?:` + g + `)(?:[^a-z0-9+#]|$)`)
	}
	return out
}
