package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

// DefaultLotPrefix is stamped on generated lot codes
const DefaultLotPrefix = "BL"

// lotDigits is the zero padding of generated lot codes. Generated codes never
// grow wider, so text order and numeric order agree in every store.
const lotDigits = 6

// maxLotNumber is the highest number that fits in lotDigits
const maxLotNumber = 999999

// ErrLotCodesExhausted is returned by Next when the prefix has no numbers left
var ErrLotCodesExhausted = errors.New("lot codes exhausted")

// LotCodeComparator orders lot codes with numeric awareness, so BL9 sorts before BL10
type LotCodeComparator struct {
	lotPattern *regexp.Regexp
}

// NewLotCodeComparator creates a new comparator with the default pattern
func NewLotCodeComparator() *LotCodeComparator {
	// Pattern matches lot codes like BL001, QC123, etc.
	pattern := regexp.MustCompile(`^([A-Z]+)(\d+)$`)
	return &LotCodeComparator{
		lotPattern: pattern,
	}
}

// Compare compares two lot codes with numeric sorting
// Returns: -1 if lot1 < lot2, 0 if equal, 1 if lot1 > lot2
// Codes that do not parse sort after all codes that do, in text order.
func (c *LotCodeComparator) Compare(lot1, lot2 string) int {
	if lot1 == lot2 {
		return 0
	}

	prefix1, num1, err1 := c.parse(lot1)
	prefix2, num2, err2 := c.parse(lot2)

	switch {
	case err1 != nil && err2 != nil:
		return strings.Compare(lot1, lot2)
	case err1 != nil:
		return 1
	case err2 != nil:
		return -1
	}

	if prefix1 != prefix2 {
		return strings.Compare(prefix1, prefix2)
	}

	if num1 < num2 {
		return -1
	} else if num1 > num2 {
		return 1
	}
	// BL01 vs BL1: same number, fall back to text so the order stays total
	return strings.Compare(lot1, lot2)
}

// parse extracts the prefix and numeric portion from a lot code
func (c *LotCodeComparator) parse(lot string) (string, int, error) {
	matches := c.lotPattern.FindStringSubmatch(lot)
	if len(matches) != 3 {
		return "", 0, fmt.Errorf("invalid lot code format: %s", lot)
	}

	num, err := strconv.Atoi(matches[2])
	if err != nil {
		return "", 0, fmt.Errorf("invalid numeric portion in lot code %s: %v", lot, err)
	}

	return matches[1], num, nil
}

// Next returns the lot code following the highest existing code with prefix
func (c *LotCodeComparator) Next(prefix string, existing []entities.LotCode) (entities.LotCode, error) {
	highest := 0
	for _, lot := range existing {
		p, n, err := c.parse(string(lot))
		if err != nil || p != prefix {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	if highest >= maxLotNumber {
		return "", fmt.Errorf("%w: %s%d is the last code", ErrLotCodesExhausted, prefix, highest)
	}
	return entities.LotCode(fmt.Sprintf("%s%0*d", prefix, lotDigits, highest+1)), nil
}
