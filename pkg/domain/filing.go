package domain

import "fmt"

// FilingStatus enumerates the federal filing statuses worksheets key their
// threshold tables on.
type FilingStatus string

const (
	Single                    FilingStatus = "single"
	MarriedFilingJointly      FilingStatus = "mfj"
	MarriedFilingSeparately   FilingStatus = "mfs"
	HeadOfHousehold           FilingStatus = "hh"
	QualifyingSurvivingSpouse FilingStatus = "qss"
)

// ParseFilingStatus converts external input into a FilingStatus.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch FilingStatus(s) {
	case Single, MarriedFilingJointly, MarriedFilingSeparately, HeadOfHousehold, QualifyingSurvivingSpouse:
		return FilingStatus(s), nil
	}
	return "", fmt.Errorf("unknown filing status %q", s)
}
