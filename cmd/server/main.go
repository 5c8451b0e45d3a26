package main

import (
	"flag"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"pv_sizer/internal/climate"
	"pv_sizer/internal/model"
	"pv_sizer/internal/ws"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	catalogPath := flag.String("catalog", "", "JSON equipment catalog (empty: built-in sample)")
	climatePath := flag.String("climate", "", "hourly weather CSV (empty: synthesize from latitude)")
	lat := flag.Float64("lat", 38.72, "site latitude in degrees")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	var zapLogger *zap.Logger
	var err error
	if *debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Sprintf("initializing logger: %v", err))
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	catalog := model.SampleCatalog()
	if *catalogPath != "" {
		catalog, err = model.LoadCatalog(*catalogPath)
		if err != nil {
			logger.Fatalw("loading catalog", "error", err)
		}
	}
	logger.Infow("catalog ready",
		"panels", len(catalog.Panels),
		"inverters", len(catalog.Inverters),
		"batteries", len(catalog.Batteries))

	var clim *climate.Record
	if *climatePath != "" {
		clim, err = climate.LoadCSVFile(*climatePath, *lat)
		if err != nil {
			logger.Fatalw("loading weather file", "error", err)
		}
		logger.Infow("weather file loaded", "path", *climatePath, "annual_ghi_kwh_m2", clim.AnnualGHIKWhM2())
	} else {
		clim = climate.Synthesize(*lat)
		logger.Infow("synthetic climate ready", "lat", *lat, "annual_ghi_kwh_m2", clim.AnnualGHIKWhM2())
	}

	hub := ws.NewHub(logger)
	handler := ws.NewHandler(hub, catalog, clim, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", handler)

	logger.Infow("starting server", "addr", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
