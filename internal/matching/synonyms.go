package matching

import "github.com/jonathan/ats-matcher/internal/normalize"

// synonymGroups lists terms a recruiter treats as interchangeable. Entries are
// raw terms; they are normalized when the index is built.
var synonymGroups = [][]string{
	{"CRM", "Salesforce", "HubSpot", "Zoho CRM", "Microsoft Dynamics"},
	{"AWS", "Amazon Web Services", "EC2", "S3"},
	{"GCP", "Google Cloud", "BigQuery"},
	{"Azure", "Microsoft Azure"},
	{"CI/CD", "continuous integration", "continuous delivery", "continuous deployment", "Jenkins", "GitHub Actions", "GitLab CI"},
	{"containerization", "Docker", "containers"},
	{"container orchestration", "Kubernetes", "OpenShift"},
	{"infrastructure as code", "IaC", "Terraform", "CloudFormation", "Pulumi"},
	{"agile", "scrum", "kanban"},
	{"version control", "Git", "GitHub", "GitLab", "Bitbucket"},
	{"spreadsheets", "Excel", "Google Sheets"},
	{"data visualization", "Tableau", "Power BI", "Looker"},
	{"ERP", "SAP", "Oracle ERP", "NetSuite"},
	{"machine learning", "deep learning", "ML"},
	{"NLP", "natural language processing"},
	{"REST", "RESTful", "REST API"},
	{"NoSQL", "MongoDB", "DynamoDB", "Cassandra"},
	{"project management", "PMP", "program management"},
	{"teamwork", "collaboration", "cross-functional"},
	{"leadership", "mentoring", "people management"},
	{"communication", "presentation", "public speaking"},
	{"problem solving", "troubleshooting", "critical thinking"},
}

// synonymIndex maps a normalized key to the ids of every group containing it.
var synonymIndex = buildSynonymIndex(synonymGroups)

func buildSynonymIndex(groups [][]string) map[string][]int {
	index := make(map[string][]int)
	for id, group := range groups {
		for _, term := range group {
			key := normalize.Normalize(term)
			index[key] = append(index[key], id)
		}
	}
	return index
}

// Synonyms reports whether two normalized keys share a synonym group.
func Synonyms(a, b string) bool {
	groupsA, ok := synonymIndex[a]
	if !ok {
		return false
	}
	for _, gb := range synonymIndex[b] {
		for _, ga := range groupsA {
			if ga == gb {
				return true
			}
		}
	}
	return false
}
