package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"montage/internal/errors"
)

// Framerate is a frames-per-second fraction. NTSC rates do not reduce to
// integers ("30000/1001"), so the fraction is kept exact and conversions
// use integer math.
type Framerate struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// DefaultFramerate is used when neither config nor caller specifies one.
var DefaultFramerate = Framerate{Num: 30, Den: 1}

// ParseFramerate accepts "30", "30/1", "30000/1001", or a decimal like
// "29.97" (resolved to a fraction over 1000 and reduced).
func ParseFramerate(s string) (Framerate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Framerate{}, errors.NewInvalidRequest("framerate is empty")
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return Framerate{}, errors.NewInvalidRequest(fmt.Sprintf("invalid framerate numerator %q", num))
		}
		d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err != nil {
			return Framerate{}, errors.NewInvalidRequest(fmt.Sprintf("invalid framerate denominator %q", den))
		}
		if n <= 0 || d <= 0 {
			return Framerate{}, errors.NewInvalidRequest("framerate must be positive")
		}
		return reduce(Framerate{Num: n, Den: d}), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return Framerate{}, errors.NewInvalidRequest(fmt.Sprintf("invalid framerate %q", s))
	}
	return reduce(Framerate{Num: int64(math.Round(f * 1000)), Den: 1000}), nil
}

// String renders the fraction, dropping the denominator when it is 1.
func (f Framerate) String() string {
	if f.Den == 1 {
		return strconv.FormatInt(f.Num, 10)
	}
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// IsZero reports an unset framerate.
func (f Framerate) IsZero() bool {
	return f.Num == 0 && f.Den == 0
}

// FrameToMs converts a frame index to milliseconds, truncating toward zero.
func (f Framerate) FrameToMs(frame int64) int64 {
	if f.Num <= 0 {
		return 0
	}
	return frame * 1000 * f.Den / f.Num
}

// MsToFrame converts milliseconds to the frame index covering that time.
func (f Framerate) MsToFrame(ms int64) int64 {
	if f.Den <= 0 {
		return 0
	}
	return ms * f.Num / (1000 * f.Den)
}

func reduce(f Framerate) Framerate {
	g := gcd(f.Num, f.Den)
	if g > 1 {
		f.Num /= g
		f.Den /= g
	}
	return f
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
