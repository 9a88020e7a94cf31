package cascade

import "fmt"

// Quota is the relative request allowance a backend offers.
type Quota int

const (
	QuotaLow Quota = iota
	QuotaMedium
	QuotaHigh
)

var quotaNames = [...]string{"low", "medium", "high"}

func (q Quota) String() string {
	if q < 0 || int(q) >= len(quotaNames) {
		return fmt.Sprintf("Quota(%d)", int(q))
	}
	return quotaNames[q]
}

// ParseQuota maps a lowercase quota name to a Quota.
func ParseQuota(s string) (Quota, error) {
	for i, name := range quotaNames {
		if s == name {
			return Quota(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quota %q: %w", s, ErrValidation)
}

// Quality is the relative answer quality of a backend.
type Quality int

const (
	QualityStandard Quality = iota
	QualityHigh
	QualityHighest
)

var qualityNames = [...]string{"standard", "high", "highest"}

func (q Quality) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityNames[q]
}

// ParseQuality maps a lowercase quality name to a Quality.
func ParseQuality(s string) (Quality, error) {
	for i, name := range qualityNames {
		if s == name {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quality %q: %w", s, ErrValidation)
}

// Backend describes one interchangeable completion backend. The ID is what
// the transport receives in Request.Model.
type Backend struct {
	ID          string
	DisplayName string
	Description string
	Quota       Quota
	Quality     Quality
	Priority    int // ascending = tried first
}
