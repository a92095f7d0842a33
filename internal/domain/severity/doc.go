// Package severity defines SCADA event severities.
//
// Raw severities are integers in the range [1, Max]. Four of them are known
// values that the panel counts and alarms on; Closest projects any raw code
// onto the nearest known value.
package severity
