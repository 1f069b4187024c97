// Package validate holds the input validation layer shared by the
// capabilities and the dispatcher.
package validate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

// MaxImageSize caps uploaded equipment photos at 10MB.
const MaxImageSize = 10 << 20

// equipmentLexicon lists the equipment names the system recognizes. Order
// matters: multi-word names come before their single-word substrings so that
// extraction prefers the most specific match.
var equipmentLexicon = []string{
	"resistance bands", "resistance band",
	"pull-up bar", "pull up bar", "pullup bar",
	"medicine balls", "medicine ball",
	"jump rope",
	"plyo box", "plyometric box",
	"rowing machine",
	"stationary bike",
	"squat rack",
	"cable machine",
	"suspension trainer",
	"ab wheel",
	"foam roller",
	"yoga mat",
	"body weight", "bodyweight", "no equipment",
	"dumbbells", "barbell", "kettlebells", "kettlebell",
	"bench", "bands", "mat", "rope", "box",
	"rower", "bike", "bicycle", "treadmill", "elliptical",
	"rack", "cables", "trx", "roller", "none",
}

var allowedEquipment = func() map[string]struct{} {
	m := make(map[string]struct{}, len(equipmentLexicon))
	for _, name := range equipmentLexicon {
		m[name] = struct{}{}
	}
	return m
}()

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Image checks size and format of an uploaded image. The magic-byte check is
// best-effort: a valid extension is accepted when the bytes are inconclusive.
func Image(content []byte, filename string) error {
	if len(content) == 0 {
		return fmt.Errorf("%w: image file is empty", contractx.ErrValidation)
	}
	if len(content) > MaxImageSize {
		return fmt.Errorf("%w: image file too large, maximum size is %dMB", contractx.ErrValidation, MaxImageSize/(1<<20))
	}

	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if _, ok := allowedImageExtensions[ext]; !ok {
			return fmt.Errorf("%w: invalid file type %q, allowed types: .jpg, .jpeg, .png", contractx.ErrValidation, ext)
		}
	}

	if isJPEG(content) || isPNG(content) {
		return nil
	}
	if filename != "" {
		// Extension already validated above.
		return nil
	}
	return fmt.Errorf("%w: invalid image format, only JPEG and PNG are supported", contractx.ErrValidation)
}

func isJPEG(content []byte) bool {
	return len(content) >= 2 && content[0] == 0xff && content[1] == 0xd8
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func isPNG(content []byte) bool {
	if len(content) < len(pngMagic) {
		return false
	}
	for i, b := range pngMagic {
		if content[i] != b {
			return false
		}
	}
	return true
}

// EquipmentList normalizes an equipment list. Unrecognized names are accepted
// but logged: the whitelist is advisory, not a gate.
func EquipmentList(equipment []string) ([]string, error) {
	if len(equipment) == 0 {
		return nil, fmt.Errorf("%w: equipment list cannot be empty", contractx.ErrValidation)
	}

	normalized := make([]string, 0, len(equipment))
	for _, item := range equipment {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if !KnownEquipment(trimmed) {
			log.Warn().Str("equipment", trimmed).Msg("custom equipment name detected")
		}
		normalized = append(normalized, trimmed)
	}

	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: no valid equipment items found", contractx.ErrValidation)
	}
	return normalized, nil
}

// KnownEquipment reports whether name is in the equipment lexicon.
func KnownEquipment(name string) bool {
	_, ok := allowedEquipment[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// ExtractEquipment scans free text for lexicon entries. Matches are returned
// in lexicon order, most specific first, without duplicates or overlaps.
func ExtractEquipment(text string) []string {
	padded := " " + strings.ToLower(text) + " "
	var found []string
	for _, name := range equipmentLexicon {
		idx := strings.Index(padded, " "+name+" ")
		if idx < 0 {
			idx = strings.Index(padded, " "+name+",")
		}
		if idx < 0 {
			idx = strings.Index(padded, " "+name+".")
		}
		if idx < 0 {
			continue
		}
		found = append(found, name)
		// Blank out the match so "resistance bands" does not also yield "bands".
		padded = strings.Replace(padded, name, strings.Repeat("#", len(name)), 1)
	}
	return found
}

var latLngPattern = regexp.MustCompile(`^-?\d+\.?\d*\s*,\s*-?\d+\.?\d*$`)

// Location accepts a free-text place name or a "lat,lon" coordinate pair.
func Location(location string) error {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return fmt.Errorf("%w: location cannot be empty", contractx.ErrValidation)
	}

	if latLngPattern.MatchString(trimmed) {
		parts := strings.SplitN(trimmed, ",", 2)
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("%w: invalid coordinate format", contractx.ErrValidation)
		}
		if lat < -90 || lat > 90 {
			return fmt.Errorf("%w: latitude must be between -90 and 90", contractx.ErrValidation)
		}
		if lng < -180 || lng > 180 {
			return fmt.Errorf("%w: longitude must be between -180 and 180", contractx.ErrValidation)
		}
	}
	return nil
}
