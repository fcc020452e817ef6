package config

import "github.com/urfave/cli/v3"

// Jira holds tracker endpoint and credential configuration. The API token
// is tagged for redaction in structured logs.
type Jira struct {
	BaseURL  string
	Username string
	APIToken string `masq:"secret"`
	Project  string
}

// Flags returns CLI flags for Jira configuration
func (c *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-base-url",
			Usage:       "Root of the Jira URL, like 'https://example.atlassian.net'",
			Required:    true,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("RELVER_JIRA_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "jira-username",
			Usage:       "Jira username (email for Jira Cloud); leave empty to use bearer auth",
			Destination: &c.Username,
			Sources:     cli.EnvVars("RELVER_JIRA_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "jira-api-token",
			Usage:       "Jira API token",
			Required:    true,
			Destination: &c.APIToken,
			Sources:     cli.EnvVars("RELVER_JIRA_API_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "jira-project",
			Usage:       "Project key to create the fix version in",
			Required:    true,
			Destination: &c.Project,
			Sources:     cli.EnvVars("RELVER_JIRA_PROJECT"),
		},
	}
}
