package store

import (
	"strings"

	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

func (b *BaseQuerier) apply(tx *gorm.DB) *gorm.DB {
	if b == nil {
		return tx
	}
	for _, fn := range b.QueryFn {
		tx = fn(tx)
	}
	return tx
}

// QueryOptions holds pagination and ordering shared by all list calls.
type QueryOptions BaseQuerier

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *QueryOptions) WithLimit(limit int) *QueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

func (o *QueryOptions) WithOffset(offset int) *QueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(offset)
	})
	return o
}

func (o *QueryOptions) WithOrder(order string) *QueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Order(order)
	})
	return o
}

// WithPage translates a 1-based page number and a page size into limit/offset.
func (o *QueryOptions) WithPage(page, pageSize int) *QueryOptions {
	if page < 1 || pageSize < 1 {
		return o
	}
	return o.WithLimit(pageSize).WithOffset((page - 1) * pageSize)
}

func (o *QueryOptions) apply(tx *gorm.DB) *gorm.DB {
	return (*BaseQuerier)(o).apply(tx)
}

type RackQueryFilter BaseQuerier

func NewRackQueryFilter() *RackQueryFilter {
	return &RackQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *RackQueryFilter) ByRoomID(roomID string) *RackQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("room_id = ?", roomID)
	})
	return f
}

func (f *RackQueryFilter) apply(tx *gorm.DB) *gorm.DB {
	return (*BaseQuerier)(f).apply(tx)
}

type DeviceQueryFilter BaseQuerier

func NewDeviceQueryFilter() *DeviceQueryFilter {
	return &DeviceQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *DeviceQueryFilter) ByRackID(rackID string) *DeviceQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("rack_id = ?", rackID)
	})
	return f
}

func (f *DeviceQueryFilter) ByStatus(status string) *DeviceQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

func (f *DeviceQueryFilter) ByType(deviceType string) *DeviceQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("type = ?", deviceType)
	})
	return f
}

// ByKeyword matches the keyword against every free text column.
func (f *DeviceQueryFilter) ByKeyword(keyword string) *DeviceQueryFilter {
	pattern := "%" + strings.ToLower(keyword) + "%"
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(
			"LOWER(id) LIKE ? OR LOWER(name) LIKE ? OR LOWER(type) LIKE ? OR LOWER(model) LIKE ? OR LOWER(serial_number) LIKE ? OR LOWER(ip_address) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern, pattern, pattern, pattern, pattern,
		)
	})
	return f
}

func (f *DeviceQueryFilter) apply(tx *gorm.DB) *gorm.DB {
	return (*BaseQuerier)(f).apply(tx)
}

type NetworkCardQueryFilter BaseQuerier

func NewNetworkCardQueryFilter() *NetworkCardQueryFilter {
	return &NetworkCardQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *NetworkCardQueryFilter) ByDeviceID(deviceID string) *NetworkCardQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("device_id = ?", deviceID)
	})
	return f
}

func (f *NetworkCardQueryFilter) ByName(name string) *NetworkCardQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("name = ?", name)
	})
	return f
}

func (f *NetworkCardQueryFilter) apply(tx *gorm.DB) *gorm.DB {
	return (*BaseQuerier)(f).apply(tx)
}

type PortQueryFilter BaseQuerier

func NewPortQueryFilter() *PortQueryFilter {
	return &PortQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *PortQueryFilter) ByDeviceID(deviceID string) *PortQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("device_id = ?", deviceID)
	})
	return f
}

func (f *PortQueryFilter) ByName(name string) *PortQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("name = ?", name)
	})
	return f
}

func (f *PortQueryFilter) ByNicID(nicID string) *PortQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("nic_id = ?", nicID)
	})
	return f
}

func (f *PortQueryFilter) WithoutNic() *PortQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("nic_id IS NULL")
	})
	return f
}

func (f *PortQueryFilter) ByStatus(status string) *PortQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

func (f *PortQueryFilter) ByType(portType string) *PortQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("type = ?", portType)
	})
	return f
}

func (f *PortQueryFilter) BySpeed(speed string) *PortQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("speed = ?", speed)
	})
	return f
}

func (f *PortQueryFilter) apply(tx *gorm.DB) *gorm.DB {
	return (*BaseQuerier)(f).apply(tx)
}

type CableQueryFilter BaseQuerier

func NewCableQueryFilter() *CableQueryFilter {
	return &CableQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *CableQueryFilter) BySourceDeviceID(deviceID string) *CableQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("source_device_id = ?", deviceID)
	})
	return f
}

func (f *CableQueryFilter) ByTargetDeviceID(deviceID string) *CableQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("target_device_id = ?", deviceID)
	})
	return f
}

// ByDeviceID matches cables having the device on either end.
func (f *CableQueryFilter) ByDeviceID(deviceID string) *CableQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("source_device_id = ? OR target_device_id = ?", deviceID, deviceID)
	})
	return f
}

func (f *CableQueryFilter) ByDeviceIDs(deviceIDs []string) *CableQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("source_device_id IN ? OR target_device_id IN ?", deviceIDs, deviceIDs)
	})
	return f
}

func (f *CableQueryFilter) ByStatus(status string) *CableQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

func (f *CableQueryFilter) ByType(cableType string) *CableQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("type = ?", cableType)
	})
	return f
}

func (f *CableQueryFilter) apply(tx *gorm.DB) *gorm.DB {
	return (*BaseQuerier)(f).apply(tx)
}
