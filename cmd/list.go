package cmd

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-apfs/internal/services"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

var (
	// Volume/snapshot selection (list command only)
	listVolumeID   uint64
	listVolumeName string
	listSnapshot   string

	// What to list (list-specific)
	listVolumes   bool
	listSnapshots bool
	listFiles     bool

	// Path options (list-specific)
	listPath      string
	listRecursive bool
)

var listCmd = &cobra.Command{
	Use:   "list [container-path]",
	Short: "List volumes, snapshots, or files",
	Long: `List contents of APFS containers.

Examples:
  # List all volumes
  go-apfs list /dev/disk2 --volumes

  # List files in specific volume
  go-apfs list /dev/disk2 --volume-name "Data" --files --path /Users

  # List snapshots
  go-apfs list /dev/disk2 --volume-id 1 --snapshots`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	// Volume/snapshot selection
	listCmd.Flags().Uint64Var(&listVolumeID, "volume-id", 0, "volume ID to list from")
	listCmd.Flags().StringVar(&listVolumeName, "volume-name", "", "volume name to list from")
	listCmd.Flags().StringVar(&listSnapshot, "snapshot", "", "snapshot to list from")

	// What to list (list-specific flags only)
	listCmd.Flags().BoolVar(&listVolumes, "volumes", false, "list volumes")
	listCmd.Flags().BoolVar(&listSnapshots, "snapshots", false, "list snapshots")
	listCmd.Flags().BoolVar(&listFiles, "files", false, "list files")

	// Path options (when listing files)
	listCmd.Flags().StringVarP(&listPath, "path", "p", "/", "path to list")
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "recursive listing")

	// Mutual exclusions
	listCmd.MarkFlagsMutuallyExclusive("volume-id", "volume-name")
}

func runList(containerPath string) error {
	container, err := services.NewContainerReader(containerPath)
	if err != nil {
		return fmt.Errorf("failed to open container: %w", err)
	}
	defer container.Close()

	// Default to listing volumes if no specific option given
	if !listVolumes && !listSnapshots && !listFiles {
		listVolumes = true
	}

	if listVolumes {
		if err := listContainerVolumes(container); err != nil {
			return err
		}
	}
	if listSnapshots {
		fmt.Println("snapshot listing: snapshot metadata tree enumeration is not yet wired to this command")
	}
	if listFiles {
		if err := listVolumeFiles(container); err != nil {
			return err
		}
	}

	return nil
}

// listContainerVolumes prints every mounted volume's name, UUID, and
// encryption/case-sensitivity state from the container's superblock.
func listContainerVolumes(container *services.ContainerReader) error {
	superblock := container.GetSuperblock()
	if superblock == nil {
		return fmt.Errorf("container superblock unavailable")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "ID\tNAME\tUUID\tENCRYPTED\tCASE-SENSITIVE\n")

	for index, oid := range superblock.NxFsOid {
		if oid == 0 {
			continue
		}
		volSvc, err := services.NewVolumeService(container, oid)
		if err != nil {
			continue
		}
		volumeSB := volSvc.Superblock()
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\n",
			index+1,
			decodeVolumeName(volumeSB.ApfsVolname),
			formatVolumeUUID(volumeSB.ApfsVolUuid),
			volumeSB.ApfsFsFlags&types.ApfsFsUnencrypted == 0,
			volumeSB.ApfsIncompatibleFeatures&types.ApfsIncompatCaseInsensitive == 0,
		)
	}

	return nil
}

// listVolumeFiles resolves the requested volume and lists a single
// directory, or walks recursively when --recursive is set.
func listVolumeFiles(container *services.ContainerReader) error {
	volumeOID, volumeSB, err := resolveListVolume(container)
	if err != nil {
		return err
	}

	fsSvc, err := services.NewFileSystemService(container, volumeOID, volumeSB)
	if err != nil {
		return fmt.Errorf("failed to initialize filesystem service: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "TYPE\tSIZE\tNAME\n")

	if listRecursive {
		return fsSvc.WalkTree(listPath, func(entry *services.FileEntry) error {
			kind := "file"
			if entry.IsDir {
				kind = "dir"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", kind, entry.Size, entry.Path)
			return nil
		})
	}

	entries, err := fsSvc.ListDirectory(listPath)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", listPath, err)
	}
	for _, entry := range entries {
		kind := "file"
		if entry.IsDir {
			kind = "dir"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", kind, entry.Size, entry.Name)
	}
	return nil
}

// resolveListVolume finds the volume named by --volume-id/--volume-name,
// defaulting to the first mounted volume.
func resolveListVolume(container *services.ContainerReader) (types.OidT, *types.ApfsSuperblockT, error) {
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

		if listVolumeID != 0 && uint64(index+1) != listVolumeID {
			continue
		}
		if listVolumeName != "" && !strings.EqualFold(volName, listVolumeName) {
			continue
		}
		return oid, volumeSB, nil
	}

	return 0, nil, fmt.Errorf("no matching volume found")
}

func decodeVolumeName(raw [types.ApfsVolnameLen]byte) string {
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

func formatVolumeUUID(u types.UUID) string {
	return fmt.Sprintf("%08X-%04X-%04X-%04X-%012X",
		binary.BigEndian.Uint32(u[0:4]), binary.BigEndian.Uint16(u[4:6]),
		binary.BigEndian.Uint16(u[6:8]), binary.BigEndian.Uint16(u[8:10]),
		u[10:16])
}
