package main

import (
	"flag"

	"github.com/lintang-b-s/osmroute/pkg/logger"
	"github.com/lintang-b-s/osmroute/pkg/osmparser"
	"github.com/lintang-b-s/osmroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	mapFile   = flag.String("map_file", "./data/diy_solo_semarang.osm.pbf", "openstreetmap file (.osm or .osm.pbf)")
	graphFile = flag.String("graph_file", "", "output graph file, defaults to GRAPH_FILE")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	out := *graphFile
	if out == "" {
		out = viper.GetString("GRAPH_FILE")
	}

	osmParser := osmparser.NewOSMParser(logger)
	graph, err := osmParser.Parse(*mapFile)
	if err != nil {
		logger.Fatal("parse openstreetmap file", zap.String("mapFile", *mapFile), zap.Error(err))
	}

	if err := graph.WriteGraph(out); err != nil {
		logger.Fatal("write graph", zap.String("graphFile", out), zap.Error(err))
	}
	logger.Sugar().Infof("Preprocessing completed successfully. graph written to %s", out)
}
