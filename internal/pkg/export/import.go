package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/klauspost/compress/zip"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

var sidecarPattern = regexp.MustCompile(`^(\d+)\.json$`)

// ImportArchive reads the card sidecars of an exported archive back, in index order.
// Images are ignored: cards are re-rendered from their fields.
func ImportArchive(data []byte) ([]*entity.Card, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", entity.ErrInvalidInput, err)
	}

	type sidecar struct {
		index int
		file  *zip.File
	}
	var sidecars []sidecar
	for _, f := range zr.File {
		m := sidecarPattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		sidecars = append(sidecars, sidecar{index: index, file: f})
	}
	if len(sidecars) == 0 {
		return nil, fmt.Errorf("%w: archive has no card sidecars", entity.ErrInvalidInput)
	}
	sort.Slice(sidecars, func(i, j int) bool { return sidecars[i].index < sidecars[j].index })

	cards := make([]*entity.Card, 0, len(sidecars))
	for _, s := range sidecars {
		card, err := readSidecar(s.file)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", entity.ErrInvalidInput, s.file.Name, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func readSidecar(f *zip.File) (*entity.Card, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, 1<<20))
	if err != nil {
		return nil, err
	}
	var card entity.Card
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, err
	}
	return card.WithoutCache(), nil
}
