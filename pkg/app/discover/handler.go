package discover

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/deploymenttheory/go-apfs/internal/services"
	"github.com/deploymenttheory/go-apfs/internal/types"
	"github.com/deploymenttheory/go-apfs/pkg/app"
)

// Handle processes a discovery request by opening the container, resolving
// the target volume, and walking its filesystem tree for matches.
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Starting file discovery in: %s", req.ContainerPath))
	ctx.Progress("Validating container...", 5)
	logSearchCriteria(ctx, req)

	container, err := services.NewContainerReader(req.ContainerPath)
	if err != nil {
		return nil, app.NewError(app.ErrCodeContainerAccess, "failed to open container", err)
	}
	defer container.Close()

	ctx.Progress("Locating volume...", 15)
	volumeOID, volumeSB, volInfo, err := resolveTargetVolume(container, req.Target)
	if err != nil {
		return nil, app.NewError(app.ErrCodeVolumeNotFound, "failed to resolve target volume", err)
	}

	fsSvc, err := services.NewFileSystemService(container, volumeOID, volumeSB)
	if err != nil {
		return nil, app.NewError(app.ErrCodeContainerAccess, "failed to initialize filesystem service", err)
	}

	ctx.Progress("Scanning filesystem...", 25)
	matcher, err := newFileMatcher(req)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "failed to build search matcher", err)
	}

	var files []FileResult
	walkErr := fsSvc.WalkTree("/", func(entry *services.FileEntry) error {
		if entry.IsDir {
			return nil
		}
		if !matcher.matchesName(entry.Name) {
			return nil
		}

		node, err := fsSvc.GetFileMetadata(entry.Inode)
		if err != nil {
			// Skip entries whose metadata can't be loaded rather than
			// aborting the whole scan; forensic images routinely have
			// unreachable or corrupt records.
			return nil
		}
		if !matcher.matches(node) {
			return nil
		}

		files = append(files, fileResultFromNode(node, volInfo.ID))
		if len(files) >= req.MaxResults {
			return errMaxResultsReached
		}
		return nil
	})
	if walkErr != nil && walkErr != errMaxResultsReached {
		return nil, app.NewError(app.ErrCodeContainerAccess, "failed to walk filesystem tree", walkErr)
	}

	ctx.Progress("Processing results...", 90)

	response := &Response{
		Files:       files,
		TotalFound:  len(files),
		VolumeInfo:  volInfo,
		SearchQuery: createSearchQuery(req),
	}
	response.SearchTime = time.Since(startTime)

	if len(response.Files) > req.MaxResults {
		response.Files = response.Files[:req.MaxResults]
		response.Truncated = true
	}

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Discovery completed: found %d files in %v", response.TotalFound, response.SearchTime))

	return response, nil
}

// errMaxResultsReached unwinds WalkTree once the result cap is hit.
var errMaxResultsReached = fmt.Errorf("max results reached")

// resolveTargetVolume finds the volume named by target among the
// container's mounted file systems, defaulting to the first one when no
// selector was given.
func resolveTargetVolume(container *services.ContainerReader, target app.VolumeTarget) (types.OidT, *types.ApfsSuperblockT, VolumeInfo, error) {
	superblock := container.GetSuperblock()
	if superblock == nil {
		return 0, nil, VolumeInfo{}, fmt.Errorf("container superblock unavailable")
	}

	for index, oid := range superblock.NxFsOid {
		if oid == 0 {
			continue
		}

		volSvc, err := services.NewVolumeService(container, oid)
		if err != nil {
			continue
		}
		volumeSB := volSvc.Superblock()
		volName := decodeVolumeName(volumeSB.ApfsVolname)

		if target.VolumeID != 0 && uint64(index+1) != target.VolumeID {
			continue
		}
		if target.VolumeName != "" && !strings.EqualFold(volName, target.VolumeName) {
			continue
		}

		info := VolumeInfo{
			ID:            uint64(index + 1),
			Name:          volName,
			UUID:          formatUUID(volumeSB.ApfsVolUuid),
			Encrypted:     volumeSB.ApfsFsFlags&types.ApfsFsUnencrypted == 0,
			CaseSensitive: volumeSB.ApfsIncompatibleFeatures&types.ApfsIncompatCaseInsensitive == 0,
		}
		return oid, volumeSB, info, nil
	}

	if target.IsEmpty() {
		return 0, nil, VolumeInfo{}, fmt.Errorf("no mounted volumes found in container")
	}
	return 0, nil, VolumeInfo{}, fmt.Errorf("no volume matches %s", target.String())
}

func decodeVolumeName(raw [types.ApfsVolnameLen]byte) string {
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

func formatUUID(u types.UUID) string {
	return fmt.Sprintf("%08X-%04X-%04X-%04X-%012X",
		binary.BigEndian.Uint32(u[0:4]), binary.BigEndian.Uint16(u[4:6]),
		binary.BigEndian.Uint16(u[6:8]), binary.BigEndian.Uint16(u[8:10]),
		u[10:16])
}

// fileMatcher applies every Request filter to a discovered FileNode.
type fileMatcher struct {
	namePattern   string
	nameRegex     *regexp.Regexp
	caseSensitive bool
	extensions    map[string]bool
	minSize       int64
	maxSize       int64
	modifiedAfter time.Time
	modifiedBefore time.Time
}

func newFileMatcher(req *Request) (*fileMatcher, error) {
	m := &fileMatcher{
		namePattern:   req.NamePattern,
		caseSensitive: req.CaseSensitive,
	}

	if req.NameRegex != "" {
		re, err := regexp.Compile(req.NameRegex)
		if err != nil {
			return nil, err
		}
		m.nameRegex = re
	}

	if len(req.Extensions) > 0 {
		m.extensions = make(map[string]bool, len(req.Extensions))
		for _, ext := range req.Extensions {
			m.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
		}
	}

	if req.MinSize != "" {
		v, err := ParseSize(req.MinSize)
		if err != nil {
			return nil, err
		}
		m.minSize = v
	}
	if req.MaxSize != "" {
		v, err := ParseSize(req.MaxSize)
		if err != nil {
			return nil, err
		}
		m.maxSize = v
	} else {
		m.maxSize = -1
	}

	if req.ModifiedAfter != "" {
		t, err := time.Parse("2006-01-02", req.ModifiedAfter)
		if err != nil {
			return nil, err
		}
		m.modifiedAfter = t
	}
	if req.ModifiedBefore != "" {
		t, err := time.Parse("2006-01-02", req.ModifiedBefore)
		if err != nil {
			return nil, err
		}
		m.modifiedBefore = t
	}

	return m, nil
}

// matchesName applies the cheap name-only filters so the walk can skip
// loading full inode metadata for entries that can never match.
func (m *fileMatcher) matchesName(name string) bool {
	if m.nameRegex != nil {
		return m.nameRegex.MatchString(name)
	}
	if m.namePattern == "" {
		return true
	}
	pattern, candidate := m.namePattern, name
	if !m.caseSensitive {
		pattern, candidate = strings.ToLower(pattern), strings.ToLower(candidate)
	}
	matched, err := filepath.Match(pattern, candidate)
	return err == nil && matched
}

func (m *fileMatcher) matches(node *services.FileNode) bool {
	if len(m.extensions) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(node.Name), "."))
		if !m.extensions[ext] {
			return false
		}
	}
	if node.Size < uint64(m.minSize) {
		return false
	}
	if m.maxSize >= 0 && node.Size > uint64(m.maxSize) {
		return false
	}
	if !m.modifiedAfter.IsZero() && node.ModifiedTime.Before(m.modifiedAfter) {
		return false
	}
	if !m.modifiedBefore.IsZero() && node.ModifiedTime.After(m.modifiedBefore) {
		return false
	}
	return true
}

func fileResultFromNode(node *services.FileNode, volumeID uint64) FileResult {
	return FileResult{
		Path:        node.Path,
		Name:        node.Name,
		Size:        int64(node.Size),
		Modified:    node.ModifiedTime,
		Created:     node.CreatedTime,
		Type:        fileType(node),
		VolumeID:    volumeID,
		InodeID:     node.Inode,
		Permissions: formatPermissions(node.Mode, node.IsDirectory, node.IsSymlink),
		Owner:       fmt.Sprintf("%d", node.UID),
		Group:       fmt.Sprintf("%d", node.GID),
		Extension:   strings.TrimPrefix(filepath.Ext(node.Name), "."),
		Encrypted:   node.IsEncrypted,
	}
}

func fileType(node *services.FileNode) string {
	switch {
	case node.IsDirectory:
		return "directory"
	case node.IsSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// formatPermissions renders a Unix-style rwx permission string from an
// inode's mode bits.
func formatPermissions(mode uint16, isDir, isSymlink bool) string {
	var b strings.Builder
	switch {
	case isDir:
		b.WriteByte('d')
	case isSymlink:
		b.WriteByte('l')
	default:
		b.WriteByte('-')
	}

	perm := mode & 0o777
	for shift := 2; shift >= 0; shift-- {
		triad := (perm >> uint(shift*3)) & 0o7
		if triad&0o4 != 0 {
			b.WriteByte('r')
		} else {
			b.WriteByte('-')
		}
		if triad&0o2 != 0 {
			b.WriteByte('w')
		} else {
			b.WriteByte('-')
		}
		if triad&0o1 != 0 {
			b.WriteByte('x')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// logSearchCriteria logs the search criteria for verbose output
func logSearchCriteria(ctx *app.Context, req *Request) {
	if !ctx.Verbose {
		return
	}

	ctx.Log("Search criteria:")
	if !req.Target.IsEmpty() {
		ctx.Log("  " + req.Target.String())
	}
	if req.NamePattern != "" {
		ctx.Log(fmt.Sprintf("  Name pattern: %s", req.NamePattern))
	}
	if req.NameRegex != "" {
		ctx.Log(fmt.Sprintf("  Name regex: %s", req.NameRegex))
	}
	if len(req.Extensions) > 0 {
		ctx.Log(fmt.Sprintf("  Extensions: %s", strings.Join(req.Extensions, ", ")))
	}
	if req.ContentSearch != "" {
		ctx.Log(fmt.Sprintf("  Content search: \"%s\"", req.ContentSearch))
	}
	if req.MinSize != "" || req.MaxSize != "" {
		ctx.Log(fmt.Sprintf("  Size range: %s - %s", req.MinSize, req.MaxSize))
	}
	if req.IncludeDeleted {
		ctx.Log("  Including deleted files")
	}
}

// createSearchQuery creates a SearchQuery from the request
func createSearchQuery(req *Request) SearchQuery {
	return SearchQuery{
		NamePattern:    req.NamePattern,
		NameRegex:      req.NameRegex,
		Extensions:     req.Extensions,
		CaseSensitive:  req.CaseSensitive,
		MinSize:        req.MinSize,
		MaxSize:        req.MaxSize,
		ModifiedAfter:  req.ModifiedAfter,
		ModifiedBefore: req.ModifiedBefore,
		ContentSearch:  req.ContentSearch,
		IncludeDeleted: req.IncludeDeleted,
		MaxResults:     req.MaxResults,
	}
}
