// Package score holds the deterministic fakeness rule engine.
package score

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/okonar/birdwatch/internal/model"
)

// Rule deltas, in evaluation order.
const (
	deltaFollowerRatio  = 30
	deltaNoBio          = 20
	deltaDefaultAvatar  = 20
	deltaVerified       = -25
	deltaVeryNewAccount = 25
	deltaNewAccount     = 15
	deltaFewPosts       = 20
	deltaHighLinkRatio  = 20
	deltaSomeLinkRatio  = 10
)

// Rule thresholds.
const (
	lowFollowers    = 50
	highFollowing   = 300
	minBioLength    = 10
	veryNewAgeDays  = 30
	newAgeDays      = 180
	minRecentPosts  = 10
	highLinkPercent = 50.0
	someLinkPercent = 20.0
)

// defaultAvatarMarker is the substring the platform puts in the URL of
// its stock profile images.
const defaultAvatarMarker = "default_profile"

// linkPattern flags a post as link-containing. Substring search, not
// full URL validation.
var linkPattern = regexp.MustCompile(`(?i)https?://|www\.`)

// Scorer evaluates the fixed rule list against a canonical profile and
// its recent posts. Score is a pure function: no I/O, deterministic
// given the same inputs and clock.
type Scorer struct {
	now func() time.Time // Injectable clock for deterministic tests
}

// NewScorer creates a scorer using the wall clock.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt creates a scorer with a fixed clock.
func NewScorerAt(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

// Score runs every rule in order, accumulating deltas and the reason
// trail. Each evaluated rule lands in exactly one of the good/bad
// lists, at most once; the final score is clamped to [0, 100].
func (s *Scorer) Score(profile *model.AccountProfile, posts []model.Post) model.ScoreResult {
	var (
		total   int
		reasons model.Reasons
	)

	bad := func(delta int, format string, args ...interface{}) {
		total += delta
		reasons.Bad = append(reasons.Bad, fmt.Sprintf(format, args...))
	}
	good := func(text string) {
		reasons.Good = append(reasons.Good, text)
	}

	// 1. Follower/following ratio.
	followers, following := profile.FollowersCount, profile.FollowingCount
	if followers < lowFollowers && following > highFollowing {
		bad(deltaFollowerRatio, "Suspicious follower ratio (%d followers / %d following): +30", followers, following)
	} else {
		good("Account has a healthy follower/following ratio.")
	}

	// 2. Bio length. An absent bio counts as length zero.
	if bioLength(profile.Bio) > minBioLength {
		good("Profile has a descriptive bio.")
	} else {
		bad(deltaNoBio, "Profile has no significant bio: +20")
	}

	// 3. Avatar. Absent or platform-default image.
	if hasCustomAvatar(profile.AvatarURL) {
		good("Account has a custom profile picture.")
	} else {
		bad(deltaDefaultAvatar, "Account is using a default profile picture: +20")
	}

	// 4. Verification discount. Emits only when verified.
	if profile.Verified {
		total += deltaVerified
		good("Account is verified by X: -25")
	}

	// 5. Account age, whole days, clock aligned to the account's own
	// creation offset.
	ageDays := accountAgeDays(s.now(), profile.CreatedAt)
	switch {
	case ageDays < veryNewAgeDays:
		bad(deltaVeryNewAccount, "Account is very new (%d days old): +25", ageDays)
	case ageDays < newAgeDays:
		bad(deltaNewAccount, "Account is relatively new (%d days old): +15", ageDays)
	default:
		good("Account is well-established and has existed for a long time.")
	}

	// Rules 6-7 need a post history. An empty list is insufficient
	// data, not a zero-risk signal: skip them entirely.
	if len(posts) > 0 {
		// 6. Recent post volume. Emits only below the floor.
		if len(posts) < minRecentPosts {
			bad(deltaFewPosts, "Account has very few recent tweets (%d found): +20", len(posts))
		}

		// 7. Link-containing post ratio.
		ratio := linkRatio(posts)
		switch {
		case ratio > highLinkPercent:
			bad(deltaHighLinkRatio, "Very high link percentage in recent tweets (%.0f%%): +20", ratio)
		case ratio > someLinkPercent:
			bad(deltaSomeLinkRatio, "High link percentage in recent tweets (%.0f%%): +10", ratio)
		default:
			good("Low percentage of tweets containing links.")
		}
	}

	return model.ScoreResult{
		Score:          clamp(total),
		AccountAgeDays: ageDays,
		Reasons:        reasons,
	}
}

// accountAgeDays is the whole-day difference between now and the
// creation instant, both evaluated in the creation timestamp's zone.
// Never negative for a valid profile.
func accountAgeDays(now, created time.Time) int {
	days := int(now.In(created.Location()).Sub(created).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func bioLength(bio *string) int {
	if bio == nil {
		return 0
	}
	return len(*bio)
}

func hasCustomAvatar(avatarURL *string) bool {
	if avatarURL == nil {
		return false
	}
	return !strings.Contains(*avatarURL, defaultAvatarMarker)
}

// linkRatio returns the percentage of posts whose text matches the
// link pattern. Callers guarantee posts is non-empty.
func linkRatio(posts []model.Post) float64 {
	linked := 0
	for _, p := range posts {
		if linkPattern.MatchString(p.Text) {
			linked++
		}
	}
	return float64(linked) / float64(len(posts)) * 100
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
