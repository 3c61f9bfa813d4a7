package alloc

import "fmt"

// Policy chooses the slot capacity of each new page.
type Policy interface {
	// Capacity returns the number of slots for the page at pageIndex
	// (0 for the first page of a pool). It must be positive.
	Capacity(pageIndex int) int
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(pageIndex int) int

// Capacity calls f.
func (f PolicyFunc) Capacity(pageIndex int) int { return f(pageIndex) }

// PageConfig defines a geometric page capacity schedule.
// Different configurations trade fragmentation against allocation latency.
type PageConfig struct {
	// Name for this configuration (for diagnostics)
	Name string `yaml:"name" envconfig:"NAME"`

	// First is the capacity of the first page.
	First int `yaml:"first" envconfig:"FIRST"`

	// Growth multiplies the capacity for each following page (>= 1).
	Growth int `yaml:"growth" envconfig:"GROWTH"`

	// Max caps the capacity of any page. Zero means First << 16.
	Max int `yaml:"max" envconfig:"MAX"`
}

// Predefined configurations.
var (
	// ConfigDefault: 16, 64, 256, 1024, 4096, 4096, ...
	ConfigDefault = PageConfig{
		Name:   "Default",
		First:  16,
		Growth: 4,
		Max:    4096,
	}

	// ConfigCompact: small pages, little slack per page but more pages.
	// 8, 16, 32, ... 512.
	ConfigCompact = PageConfig{
		Name:   "Compact",
		First:  8,
		Growth: 2,
		Max:    512,
	}

	// ConfigThroughput: large pages that rarely need to grow.
	// 256, 2048, 16384, 65536, ...
	ConfigThroughput = PageConfig{
		Name:   "Throughput",
		First:  256,
		Growth: 8,
		Max:    65536,
	}
)

// ConfigFixed returns a configuration where every page holds n slots.
func ConfigFixed(n int) PageConfig {
	return PageConfig{
		Name:   fmt.Sprintf("Fixed%d", n),
		First:  n,
		Growth: 1,
		Max:    n,
	}
}

// Validate checks that the schedule produces positive capacities.
func (c PageConfig) Validate() error {
	if c.First <= 0 {
		return fmt.Errorf("%w: first page capacity %d", ErrBadConfig, c.First)
	}
	if c.Growth < 1 {
		return fmt.Errorf("%w: growth factor %d", ErrBadConfig, c.Growth)
	}
	if c.Max != 0 && c.Max < c.First {
		return fmt.Errorf("%w: max %d below first %d", ErrBadConfig, c.Max, c.First)
	}
	return nil
}

func (c PageConfig) maxCapacity() int {
	if c.Max > 0 {
		return c.Max
	}
	return c.First << 16
}

// Capacity returns First * Growth^pageIndex, capped at Max.
func (c PageConfig) Capacity(pageIndex int) int {
	limit := c.maxCapacity()
	n := c.First
	for i := 0; i < pageIndex && n < limit; i++ {
		if c.Growth <= 1 {
			break
		}
		n *= c.Growth
	}
	return min(n, limit)
}

// Schedule returns the capacities of the first n pages.
func (c PageConfig) Schedule(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = c.Capacity(i)
	}
	return out
}

// String returns the configuration name.
func (c PageConfig) String() string {
	if c.Name == "" {
		return fmt.Sprintf("PageConfig(%d×%d≤%d)", c.First, c.Growth, c.maxCapacity())
	}
	return c.Name
}

// CapacityOf evaluates p for pageIndex and clamps the result to at least one
// slot, so a misbehaving custom policy cannot produce empty pages.
func CapacityOf(p Policy, pageIndex int) int {
	if p == nil {
		p = ConfigDefault
	}
	return max(p.Capacity(pageIndex), 1)
}
