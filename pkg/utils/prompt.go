// Package utils holds interactive prompt helpers for the CLI.
package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/params"
)

// PromptForParameters prompts the operator for each parameter in the schema.
// Environment variables named DROPZONE_<PARAM> override defaults, and
// DROPZONE_SKIP_PROMPTS=true suppresses prompting entirely for automation.
func PromptForParameters(schema []params.Parameter) (map[string]interface{}, error) {
	result := make(map[string]interface{})
	for _, param := range schema {
		value, err := promptForParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		result[param.Name] = value
	}
	return result, nil
}

func promptForParameter(param params.Parameter) (interface{}, error) {
	envKey := "DROPZONE_" + strings.ToUpper(param.Name)

	if os.Getenv("DROPZONE_SKIP_PROMPTS") == "true" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return parseEnvValue(envValue, param)
		}
		if param.Default != nil {
			return param.Default, nil
		}
		if param.Required {
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return nil, nil
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		if parsed, err := parseEnvValue(envValue, param); err == nil {
			param.Default = parsed
		}
	}

	switch param.Type {
	case "integer":
		return promptInteger(param)
	case "float":
		return promptFloat(param)
	case "string":
		return promptString(param)
	case "boolean":
		return promptBoolean(param)
	case "date":
		return promptDate(param)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

func parseEnvValue(value string, param params.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		return strconv.Atoi(value)
	case "float":
		return strconv.ParseFloat(value, 64)
	case "string", "date":
		return value, nil
	case "boolean":
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

func promptInteger(param params.Parameter) (int, error) {
	defaultStr := ""
	if param.Default != nil {
		switch v := param.Default.(type) {
		case int:
			defaultStr = strconv.Itoa(v)
		case float64:
			defaultStr = strconv.Itoa(int(v))
		}
	}

	prompt := &survey.Input{Message: param.Description, Default: defaultStr}
	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required)); err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(result)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	if param.Min != nil && value < toInt(param.Min) {
		return 0, fmt.Errorf("value must be at least %d", toInt(param.Min))
	}
	if param.Max != nil && value > toInt(param.Max) {
		return 0, fmt.Errorf("value must be at most %d", toInt(param.Max))
	}
	return value, nil
}

func promptFloat(param params.Parameter) (float64, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	prompt := &survey.Input{Message: param.Description, Default: defaultStr}
	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required)); err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}
	if param.Min != nil && value < toFloat64(param.Min) {
		return 0, fmt.Errorf("value must be at least %g", toFloat64(param.Min))
	}
	if param.Max != nil && value > toFloat64(param.Max) {
		return 0, fmt.Errorf("value must be at most %g", toFloat64(param.Max))
	}
	return value, nil
}

func promptString(param params.Parameter) (string, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	if len(param.Options) > 0 {
		prompt := &survey.Select{
			Message: param.Description,
			Options: param.Options,
			Default: defaultStr,
		}
		var result string
		if err := survey.AskOne(prompt, &result); err != nil {
			return "", err
		}
		return result, nil
	}

	prompt := &survey.Input{Message: param.Description, Default: defaultStr}
	var result string
	var validators []survey.Validator
	if param.Required {
		validators = append(validators, survey.Required)
	}
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.ComposeValidators(validators...))); err != nil {
		return "", err
	}
	return result, nil
}

func promptBoolean(param params.Parameter) (bool, error) {
	defaultBool := false
	if v, ok := param.Default.(bool); ok {
		defaultBool = v
	}

	prompt := &survey.Confirm{Message: param.Description, Default: defaultBool}
	var result bool
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func promptDate(param params.Parameter) (string, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	prompt := &survey.Input{Message: param.Description, Default: defaultStr}
	var result string
	validator := func(ans interface{}) error {
		s, _ := ans.(string)
		if s == "" {
			return nil
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD")
		}
		return nil
	}
	if err := survey.AskOne(prompt, &result, survey.WithValidator(validator)); err != nil {
		return "", err
	}
	return result, nil
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}
