package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/clusterauction/auctioneer"
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/communication/http/auction_http_handlers"
	"code.cloudfoundry.org/clusterauction/communication/http/routes"
	"code.cloudfoundry.org/clusterauction/config"
	"code.cloudfoundry.org/clusterauction/simulation/visualization"
	"code.cloudfoundry.org/clusterauction/util"
	"code.cloudfoundry.org/lager"
	"code.cloudfoundry.org/workpool"
	"github.com/tedsuo/ifrit"
	"github.com/tedsuo/ifrit/grouper"
	"github.com/tedsuo/ifrit/http_server"
	"github.com/tedsuo/ifrit/sigmon"
	"github.com/tedsuo/rata"
)

var configPath = flag.String("config", "", "path to the YAML config file")
var listenAddr = flag.String("listenAddr", "", "http address to listen on, overrides the config file")

var simulate = flag.Bool("simulate", false, "run a single session in process, print its report and exit")
var resourceID = flag.String("resource", "gpu-h100", "resource auctioned when simulating")
var basePrice = flag.Float64("basePrice", 40, "base price when simulating")
var totalUnits = flag.Int("units", 100, "units sold per round when simulating")
var svgReport = flag.String("svgReport", "", "write an SVG report card of the simulated session to this path")

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	workPool, err := workpool.NewWorkPool(cfg.Workers)
	if err != nil {
		logger.Fatal("failed-to-create-work-pool", err)
	}
	defer workPool.Stop()

	registry := auctioneer.New(
		logger,
		clock.NewClock(),
		workPool,
		util.NewSeedSource(cfg.Seed),
		cfg.Rules(),
		cfg.MaxQueuedEvents,
		cfg.SessionRetention,
	)

	if *simulate {
		err := runSimulation(logger, registry, cfg.Rules())
		if err != nil {
			logger.Fatal("simulation-failed", err)
		}
		return
	}

	handler, err := rata.NewRouter(routes.Routes, auction_http_handlers.New(registry, logger))
	if err != nil {
		logger.Fatal("failed-to-create-router", err)
	}

	members := grouper.Members{
		{Name: "auctioneer", Runner: registry},
		{Name: "http-server", Runner: http_server.New(cfg.ListenAddr, handler)},
	}

	group := grouper.NewOrdered(os.Interrupt, members)
	monitor := ifrit.Invoke(sigmon.New(group))

	logger.Info("started", lager.Data{"listen-addr": cfg.ListenAddr})

	err = <-monitor.Wait()
	if err != nil {
		logger.Error("exited-with-failure", err)
		os.Exit(1)
	}

	logger.Info("exited")
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadAndValidate(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (lager.Logger, error) {
	level, err := cfg.LagerLevel()
	if err != nil {
		return nil, err
	}

	logger := lager.NewLogger("auctioneer")
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, level))
	return logger, nil
}

func runSimulation(logger lager.Logger, registry *auctioneer.Auctioneer, rules auctiontypes.AuctionRules) error {
	logger = logger.Session("simulate")
	t := time.Now()

	state, err := registry.CreateSession(auctiontypes.SessionParams{
		ResourceID: *resourceID,
		BasePrice:  *basePrice,
		TotalUnits: *totalUnits,
	})
	if err != nil {
		return err
	}

	subscription, err := registry.Subscribe(state.Guid)
	if err != nil {
		return err
	}
	defer subscription.Close()

	err = registry.StartVerification(state.Guid)
	if err != nil {
		return err
	}

	for event := range subscription.Events() {
		logger.Debug("event", lager.Data{"type": event.EventType(), "data": event})
		if event.EventType() == auctiontypes.SessionAbortedEventType {
			return errors.New("session aborted")
		}
	}

	settlement, err := registry.Report(state.Guid)
	if err != nil {
		return err
	}

	report := visualization.NewReport(settlement, time.Since(t))
	visualization.PrintReport(os.Stdout, report)

	if *svgReport != "" {
		f, err := os.Create(*svgReport)
		if err != nil {
			return err
		}
		defer f.Close()
		visualization.WriteReportCard(f, rules, report)
	}

	return nil
}
