package metrics

import (
	"context"
	"fmt"

	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type rackStatsCollector struct {
	store        store.Store
	totalRacks   *prometheus.Desc
	totalDevices *prometheus.Desc
	totalCables  *prometheus.Desc
	rackPower    *prometheus.Desc
	rackMaxPower *prometheus.Desc
}

func newRackStatsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_inventory_%s", rackPlanner, name)
	}

	return &rackStatsCollector{
		store: s,
		totalRacks: prometheus.NewDesc(
			fqName("racks_total"),
			"Total number of racks.",
			nil,
			prometheus.Labels{},
		),
		totalDevices: prometheus.NewDesc(
			fqName("devices_total"),
			"Total number of mounted devices.",
			nil,
			prometheus.Labels{},
		),
		totalCables: prometheus.NewDesc(
			fqName("cables_total"),
			"Total number of cables.",
			nil,
			prometheus.Labels{},
		),
		rackPower: prometheus.NewDesc(
			fqName("rack_power_watts"),
			"Power drawn by the devices of a rack.",
			[]string{"rack_id"},
			prometheus.Labels{},
		),
		rackMaxPower: prometheus.NewDesc(
			fqName("rack_max_power_watts"),
			"Declared power capacity of a rack.",
			[]string{"rack_id"},
			prometheus.Labels{},
		),
	}
}

// RegisterRackStatsCollector exposes inventory gauges computed from the store on every scrape.
func RegisterRackStatsCollector(s store.Store) {
	prometheus.MustRegister(newRackStatsCollector(s))
}

func (c *rackStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalRacks
	ch <- c.totalDevices
	ch <- c.totalCables
	ch <- c.rackPower
	ch <- c.rackMaxPower
}

// Collect implements Collector.
func (c *rackStatsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	racks, err := c.store.Rack().List(ctx, nil, nil)
	if err != nil {
		zap.S().Named("rack_collector").Errorf("failed to collect rack statistics: %s", err)
		return
	}
	devices, err := c.store.Device().Count(ctx, nil)
	if err != nil {
		zap.S().Named("rack_collector").Errorf("failed to count devices: %s", err)
		return
	}
	cables, err := c.store.Cable().Count(ctx, nil)
	if err != nil {
		zap.S().Named("rack_collector").Errorf("failed to count cables: %s", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.totalRacks, prometheus.GaugeValue, float64(len(racks)))
	ch <- prometheus.MustNewConstMetric(c.totalDevices, prometheus.GaugeValue, float64(devices))
	ch <- prometheus.MustNewConstMetric(c.totalCables, prometheus.GaugeValue, float64(cables))

	for _, rack := range racks {
		ch <- prometheus.MustNewConstMetric(c.rackPower, prometheus.GaugeValue, rack.CurrentPower, rack.ID)
		ch <- prometheus.MustNewConstMetric(c.rackMaxPower, prometheus.GaugeValue, rack.MaxPower, rack.ID)
	}
}
