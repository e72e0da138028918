package criteria

import "fmt"

// evalRegistryState compares one registry attribute against its expected
// value. A missing component or attribute is a failed check with a
// descriptive message, never an engine error.
func evalRegistryState(c Criterion, in Inputs) CheckResult {
	result := CheckResult{
		CheckName:        c.CheckID,
		AttributeChecked: fmt.Sprintf("%s.%s", c.ComponentID, c.Attribute),
		ExpectedValue:    c.ExpectedValue,
	}

	value, componentFound, attributeFound := in.Registry.Lookup(c.ComponentID, c.Attribute)
	switch {
	case !componentFound:
		result.Message = fmt.Sprintf("component %q not present in registry snapshot (%d components)",
			c.ComponentID, in.Registry.Components())
		result.ActualValue = nil
	case !attributeFound:
		result.Message = fmt.Sprintf("component %q has no attribute %q", c.ComponentID, c.Attribute)
		result.ActualValue = nil
	default:
		result.ActualValue = value
		result.Passed = valuesEqual(value, c.ExpectedValue)
		if !result.Passed {
			result.Message = fmt.Sprintf("%s.%s: expected %v, got %v",
				c.ComponentID, c.Attribute, c.ExpectedValue, value)
		}
	}
	return result
}

// valuesEqual compares loosely-typed config values against decoded snapshot
// values. YAML and JSON decode numbers differently (int vs float64), so a
// string-form comparison backstops the direct one.
func valuesEqual(actual, expected any) bool {
	if actual == expected {
		return true
	}
	return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected)
}
