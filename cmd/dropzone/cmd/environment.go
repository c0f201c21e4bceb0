package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/client"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/config"
)

// selectEnvironment resolves the service environment from, in order: the
// --url flag, the DROPZONE_URL variable, the --env flag against the config
// file, the file's selected entry, then an interactive prompt.
func selectEnvironment() (*config.Environment, error) {
	if envURL != "" {
		return &config.Environment{Name: "Custom", URL: envURL}, nil
	}

	if url := os.Getenv("DROPZONE_URL"); url != "" {
		return &config.Environment{Name: "Environment", URL: url}, nil
	}

	envConfig, err := config.LoadEnvironments()
	if err != nil {
		return nil, err
	}

	if envName != "" {
		for _, env := range envConfig.Environments {
			if env.Name == envName {
				return &env, nil
			}
		}
		return nil, fmt.Errorf("environment %s not found", envName)
	}

	if envConfig.Selected != "" {
		for _, env := range envConfig.Environments {
			if env.Name == envConfig.Selected {
				return &env, nil
			}
		}
	}

	options := make([]string, len(envConfig.Environments)+1)
	for i, env := range envConfig.Environments {
		options[i] = env.Name
	}
	options[len(options)-1] = "Custom URL"

	var selected string
	prompt := &survey.Select{
		Message: "Select environment:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}

	if selected == "Custom URL" {
		var customURL string
		urlPrompt := &survey.Input{
			Message: "Enter analysis service URL:",
			Default: "http://localhost:8000",
		}
		if err := survey.AskOne(urlPrompt, &customURL); err != nil {
			return nil, err
		}
		return &config.Environment{Name: "Custom", URL: customURL}, nil
	}

	for _, env := range envConfig.Environments {
		if env.Name == selected {
			return &env, nil
		}
	}
	return nil, fmt.Errorf("environment not found")
}

// newServiceClient builds a client for the resolved environment.
func newServiceClient() (*client.Client, error) {
	env, err := selectEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to select environment: %w", err)
	}

	cli, err := client.NewWithURL(env.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create service client: %w", err)
	}
	return cli, nil
}
