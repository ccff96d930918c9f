package container

import (
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/parsers/volumes"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// containerVolumeManager handles volume discovery and management within a container
type containerVolumeManager struct {
	superblockReader interfaces.ContainerSuperblockReader
	blockReader      interfaces.BlockDeviceReader
	objectMapReader  interfaces.ObjectMapReader
}

// NewContainerVolumeManager creates a new container volume manager
func NewContainerVolumeManager(
	superblockReader interfaces.ContainerSuperblockReader,
	blockReader interfaces.BlockDeviceReader,
	objectMapReader interfaces.ObjectMapReader,
) *containerVolumeManager {
	return &containerVolumeManager{
		superblockReader: superblockReader,
		blockReader:      blockReader,
		objectMapReader:  objectMapReader,
	}
}

// ListVolumes returns all volumes in the container
func (cvm *containerVolumeManager) ListVolumes() ([]interfaces.Volume, error) {
	volumeOIDs := cvm.superblockReader.VolumeOIDs()
	volumes := make([]interfaces.Volume, 0, len(volumeOIDs))

	for _, oid := range volumeOIDs {
		if oid == 0 {
			continue // Skip invalid/empty volume slots
		}

		volume, err := cvm.loadVolume(oid)
		if err != nil {
			// Skip volumes that fail to load and continue with the others
			continue
		}
		volumes = append(volumes, volume)
	}

	return volumes, nil
}

// FindVolumeByName finds a volume by its name
func (cvm *containerVolumeManager) FindVolumeByName(name string) (interfaces.Volume, error) {
	volumes, err := cvm.ListVolumes()
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	for _, volume := range volumes {
		if volume.Name() == name {
			return volume, nil
		}
	}

	return nil, fmt.Errorf("volume with name '%s' not found", name)
}

// FindVolumeByUUID finds a volume by its UUID
func (cvm *containerVolumeManager) FindVolumeByUUID(uuid types.UUID) (interfaces.Volume, error) {
	volumes, err := cvm.ListVolumes()
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	for _, volume := range volumes {
		if volume.UUID() == uuid {
			return volume, nil
		}
	}

	return nil, fmt.Errorf("volume with UUID %v not found", uuid)
}

// FindVolumesByRole finds volumes by their role
func (cvm *containerVolumeManager) FindVolumesByRole(role uint16) ([]interfaces.Volume, error) {
	volumes, err := cvm.ListVolumes()
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	matchingVolumes := make([]interfaces.Volume, 0)
	for _, volume := range volumes {
		if volume.Role() == role {
			matchingVolumes = append(matchingVolumes, volume)
		}
	}

	return matchingVolumes, nil
}

// loadVolume loads a volume by its object identifier
func (cvm *containerVolumeManager) loadVolume(oid types.OidT) (interfaces.Volume, error) {
	// For now, this is a simplified implementation that creates a placeholder volume
	// In a full implementation, this would:
	// 1. Use the object map to resolve the volume OID to a physical address
	// 2. Read the volume superblock from that address
	// 3. Parse the volume superblock into types.ApfsSuperblockT

	// Create a minimal placeholder superblock for testing
	superblock := &types.ApfsSuperblockT{
		ApfsMagic: types.ApfsMagic,
		ApfsO: types.ObjPhysT{
			OOid: oid,
		},
		// Initialize other fields as needed for testing
	}

	// Create and return the Volume instance
	volume := volumes.NewVolume(superblock)
	return volume, nil
}
