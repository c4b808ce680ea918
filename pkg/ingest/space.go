package ingest

import "golang.org/x/sys/unix"

// SpaceFunc reports the bytes available to unprivileged users on the filesystem holding dir.
type SpaceFunc func(dir string) (uint64, error)

// AvailableSpace implements SpaceFunc with statfs(2).
func AvailableSpace(dir string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
