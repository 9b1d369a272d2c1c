package genex

import (
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/ndaniels/genex/distance"
)

// snapshotVersion is bumped whenever the on-disk record shape changes.
const snapshotVersion uint32 = 1

// Save writes the whole index — schema version, (N, Lmax, threshold,
// distance name), then every built length's ordered group list — to w as
// a single zlib-compressed stream. Each group emits (count, centroid
// coordinate, last-member coordinate) followed by every member coordinate
// in insertion order: one binary.Write per fixed-width field, a single
// compressed stream for the whole table. klauspost/compress's zlib writer
// is wire-compatible with the stdlib's compress/zlib reader — it is used
// here purely for its higher throughput on the large membership tables a
// fully-built index produces.
func (gs *GlobalGroupSpace) Save(w io.Writer) error {
	if !gs.IsGrouped() {
		return ErrNoGroupsBuilt
	}

	zw := zlib.NewWriter(w)
	if err := writeHeader(zw, gs); err != nil {
		zw.Close()
		return wrapf(ErrIOFailure, "writing snapshot header: %s", err)
	}
	for length := 2; length < len(gs.local); length++ {
		space := gs.local[length]
		if space == nil {
			continue
		}
		if err := writeLengthSpace(zw, length, space); err != nil {
			zw.Close()
			return wrapf(ErrIOFailure, "writing length %d: %s", length, err)
		}
	}
	if err := zw.Close(); err != nil {
		return wrapf(ErrIOFailure, "closing snapshot writer: %s", err)
	}
	return nil
}

func writeHeader(w io.Writer, gs *GlobalGroupSpace) error {
	if err := binary.Write(w, binary.LittleEndian, snapshotVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(gs.dataset.ItemCount())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(gs.dataset.ItemLength())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, gs.threshold); err != nil {
		return err
	}
	if err := writeString(w, gs.distanceName); err != nil {
		return err
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeLengthSpace(w io.Writer, length int, space *LocalLengthGroupSpace) error {
	if err := binary.Write(w, binary.LittleEndian, int32(length)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(space.groups))); err != nil {
		return err
	}
	for _, g := range space.groups {
		if err := binary.Write(w, binary.LittleEndian, int32(g.Count())); err != nil {
			return err
		}
		if err := writeCoord(w, g.centroidCoord); err != nil {
			return err
		}
		if err := writeCoord(w, g.lastMemberCoord); err != nil {
			return err
		}
		for _, m := range g.members {
			if err := writeCoord(w, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCoord(w io.Writer, c Coord) error {
	if err := binary.Write(w, binary.LittleEndian, int32(c.Series)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, int32(c.Start))
}

func readCoord(r io.Reader) (Coord, error) {
	var series, start int32
	if err := binary.Read(r, binary.LittleEndian, &series); err != nil {
		return Coord{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &start); err != nil {
		return Coord{}, err
	}
	return Coord{Series: int(series), Start: int(start)}, nil
}

// Load reads a snapshot written by Save back into gs, which must already
// be constructed over a Dataset whose (N, Lmax) match the snapshot's —
// otherwise ErrIncompatibleDataset is returned without mutating gs.
// Replaying each group's member coordinates through addMember
// re-establishes both the centroid and the flat member map without
// recomputing a single distance.
func (gs *GlobalGroupSpace) Load(r io.Reader) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return wrapf(ErrIOFailure, "opening snapshot reader: %s", err)
	}
	defer zr.Close()

	var version uint32
	if err := binary.Read(zr, binary.LittleEndian, &version); err != nil {
		return wrapf(ErrIOFailure, "reading snapshot version: %s", err)
	}
	if version != snapshotVersion {
		return wrapf(ErrIncompatibleDataset, "snapshot version %d, want %d", version, snapshotVersion)
	}

	var n, lMax int32
	if err := binary.Read(zr, binary.LittleEndian, &n); err != nil {
		return wrapf(ErrIOFailure, "reading item count: %s", err)
	}
	if err := binary.Read(zr, binary.LittleEndian, &lMax); err != nil {
		return wrapf(ErrIOFailure, "reading item length: %s", err)
	}
	if int(n) != gs.dataset.ItemCount() || int(lMax) != gs.dataset.ItemLength() {
		return wrapf(ErrIncompatibleDataset, "snapshot (N=%d,Lmax=%d) vs dataset (N=%d,Lmax=%d)",
			n, lMax, gs.dataset.ItemCount(), gs.dataset.ItemLength())
	}

	var threshold float64
	if err := binary.Read(zr, binary.LittleEndian, &threshold); err != nil {
		return wrapf(ErrIOFailure, "reading threshold: %s", err)
	}
	distanceName, err := readString(zr)
	if err != nil {
		return wrapf(ErrIOFailure, "reading distance name: %s", err)
	}

	d, err := distance.Lookup(distanceName)
	if err != nil {
		return err
	}

	local := make([]*LocalLengthGroupSpace, int(lMax)+1)
	for {
		var length int32
		if err := binary.Read(zr, binary.LittleEndian, &length); err != nil {
			if err == io.EOF {
				break
			}
			return wrapf(ErrIOFailure, "reading length marker: %s", err)
		}

		var numGroups int32
		if err := binary.Read(zr, binary.LittleEndian, &numGroups); err != nil {
			return wrapf(ErrIOFailure, "reading group count for length %d: %s", length, err)
		}

		space := newLocalLengthGroupSpace(gs.dataset, int(length))
		for gi := 0; gi < int(numGroups); gi++ {
			var count int32
			if err := binary.Read(zr, binary.LittleEndian, &count); err != nil {
				return wrapf(ErrIOFailure, "reading member count: %s", err)
			}
			if _, err := readCoord(zr); err != nil { // stored centroid coord, redundant with first member
				return wrapf(ErrIOFailure, "reading centroid coord: %s", err)
			}
			if _, err := readCoord(zr); err != nil { // stored last-member coord, redundant with last member
				return wrapf(ErrIOFailure, "reading last-member coord: %s", err)
			}

			g := newGroup(gi, int(length), space)
			for mi := 0; mi < int(count); mi++ {
				coord, err := readCoord(zr)
				if err != nil {
					return wrapf(ErrIOFailure, "reading member coord: %s", err)
				}
				g.addMember(coord.Series, coord.Start)
			}
			space.groups = append(space.groups, g)
		}
		local[length] = space
	}

	gs.local = local
	gs.distanceName = distanceName
	gs.threshold = threshold
	gs.dist = d
	gs.progress = newBuildProgress(len(local) - 2)
	return nil
}
