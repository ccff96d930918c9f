package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-apfs/internal/services"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

var (
	// Source and destination (extract-specific)
	extractSource string
	extractDest   string

	// Extraction options (extract-specific)
	extractRecursive  bool
	preserveMetadata  bool
	preservePerms     bool
	overwriteExisting bool
	verifyExtraction  bool

	volumeName   string
	volumeID     uint64
	snapshotName string
)

var extractCmd = &cobra.Command{
	Use:   "extract [container-path]",
	Short: "Extract files, directories, or volumes",
	Long: `Extract files from APFS containers.

Examples:
  # Extract entire volume
  go-apfs --volume-name "Macintosh HD" extract /dev/disk2 --dest ./backup

  # Extract specific directory
  go-apfs extract /dev/disk2 --source /Users/alice --dest ./alice-backup --recursive

  # Extract from snapshot
  go-apfs --snapshot "Daily-2024-01-15" extract backup.dmg --source /Documents --dest ./docs`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Source and destination (extract-specific flags only)
	extractCmd.Flags().StringVarP(&extractSource, "source", "s", "/", "source path (default: entire volume)")
	extractCmd.Flags().StringVarP(&extractDest, "dest", "d", "", "destination path (required)")
	extractCmd.MarkFlagRequired("dest")

	// Extraction behavior
	extractCmd.Flags().BoolVarP(&extractRecursive, "recursive", "r", false, "extract recursively")
	extractCmd.Flags().BoolVar(&preserveMetadata, "preserve-metadata", true, "preserve metadata")
	extractCmd.Flags().BoolVar(&preservePerms, "preserve-perms", true, "preserve permissions")
	extractCmd.Flags().BoolVar(&overwriteExisting, "overwrite", false, "overwrite existing files")
	extractCmd.Flags().BoolVar(&verifyExtraction, "verify", false, "verify extraction integrity")

	// Target selection (local to extract; list and discover declare their own)
	extractCmd.Flags().StringVar(&volumeName, "volume-name", "", "volume name to extract from")
	extractCmd.Flags().Uint64Var(&volumeID, "volume-id", 0, "volume ID to extract from")
	extractCmd.Flags().StringVar(&snapshotName, "snapshot", "", "snapshot to extract from")
	extractCmd.MarkFlagsMutuallyExclusive("volume-id", "volume-name")
}

func runExtract(containerPath string) error {
	container, err := services.NewContainerReader(containerPath)
	if err != nil {
		return fmt.Errorf("failed to open container: %w", err)
	}
	defer container.Close()

	volumeOID, volumeSB, err := resolveExtractVolume(container)
	if err != nil {
		return fmt.Errorf("failed to resolve target volume: %w", err)
	}

	fsSvc, err := services.NewFileSystemService(container, volumeOID, volumeSB)
	if err != nil {
		return fmt.Errorf("failed to initialize filesystem service: %w", err)
	}

	if err := os.MkdirAll(extractDest, 0o755); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", extractDest, err)
	}

	isDir, err := fsSvc.IsDirectory(extractSource)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", extractSource, err)
	}

	extracted := 0
	if isDir {
		if !extractRecursive {
			return fmt.Errorf("%s is a directory; pass --recursive to extract it", extractSource)
		}
		err = fsSvc.WalkTree(extractSource, func(entry *services.FileEntry) error {
			if entry.IsDir {
				return nil
			}
			if err := extractOneFile(fsSvc, entry.Path, extractSource, extractDest); err != nil {
				return err
			}
			extracted++
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed while walking %s: %w", extractSource, err)
		}
	} else {
		if err := extractOneFile(fsSvc, extractSource, filepath.Dir(extractSource), extractDest); err != nil {
			return err
		}
		extracted++
	}

	fmt.Printf("extracted %d file(s) to %s\n", extracted, extractDest)
	return nil
}

// extractOneFile reads a file's content from the volume and writes it under
// destRoot, mirroring its path relative to sourceRoot.
func extractOneFile(fsSvc *services.FileSystemServiceImpl, path, sourceRoot, destRoot string) error {
	node, err := fsSvc.GetInodeByPath(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	data, err := fsSvc.ReadFile(node.Inode)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	relPath := strings.TrimPrefix(path, sourceRoot)
	relPath = strings.TrimPrefix(relPath, "/")
	if relPath == "" {
		relPath = filepath.Base(path)
	}
	destPath := filepath.Join(destRoot, relPath)

	if !overwriteExisting {
		if _, err := os.Stat(destPath); err == nil {
			return fmt.Errorf("refusing to overwrite existing file %s (pass --overwrite)", destPath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", destPath, err)
	}

	perm := os.FileMode(0o644)
	if preservePerms {
		perm = os.FileMode(node.Mode & 0o777)
	}

	if err := os.WriteFile(destPath, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	if preserveMetadata && !node.ModifiedTime.IsZero() {
		_ = os.Chtimes(destPath, node.ModifiedTime, node.ModifiedTime)
	}

	return nil
}

// resolveExtractVolume finds the volume named by --volume-id/--volume-name,
// defaulting to the first mounted volume.
func resolveExtractVolume(container *services.ContainerReader) (types.OidT, *types.ApfsSuperblockT, error) {
	superblock := container.GetSuperblock()
	if superblock == nil {
		return 0, nil, fmt.Errorf("container superblock unavailable")
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

		if volumeID != 0 && uint64(index+1) != volumeID {
			continue
		}
		if volumeName != "" && !strings.EqualFold(volName, volumeName) {
			continue
		}
		return oid, volumeSB, nil
	}

	return 0, nil, fmt.Errorf("no matching volume found")
}
