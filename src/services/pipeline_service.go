package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/altpipe/src/logger"
	"github.com/username/altpipe/src/models"
	"github.com/username/altpipe/src/parsers"
	"github.com/username/altpipe/src/parsers/sheet"
	"github.com/username/altpipe/src/processors"
	"github.com/username/altpipe/src/utils"
)

// TradeWriter persists normalized trades to staging.
type TradeWriter interface {
	InsertTrade(ctx context.Context, t *models.Trade) error
}

type pipelineServiceImpl struct {
	inputPaths []string
	writer     TradeWriter
	summarizer *processors.Summarizer
	chainer    *processors.ChainProcessor
}

// NewPipelineService wires the pipeline around the two stores. The trade
// cache lets the summarizer and the chain builder share one staging fetch.
func NewPipelineService(inputPaths []string, writer TradeWriter, source processors.TradeSource, sink interface {
	processors.SummarySink
	processors.ChainSink
}) PipelineService {
	tradeCache := cache.New(processors.DefaultCacheExpiration, processors.CacheCleanupInterval)
	cachedSource := processors.NewCachedTradeSource(source, tradeCache)
	return &pipelineServiceImpl{
		inputPaths: inputPaths,
		writer:     writer,
		summarizer: processors.NewSummarizer(cachedSource, sink),
		chainer:    processors.NewChainProcessor(cachedSource, sink),
	}
}

func (s *pipelineServiceImpl) IngestFiles(ctx context.Context, handle string) error {
	runID := uuid.NewString()
	start := time.Now()
	logger.L.Info("IngestFiles START", "runID", runID, "handle", handle, "files", len(s.inputPaths))

	parser, err := parsers.GetParser(handle)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIngestFailed, err)
	}

	for _, path := range s.inputPaths {
		if err := s.ingestFile(ctx, parser, path, runID); err != nil {
			logger.L.Error("File ingestion aborted", "runID", runID, "file", path, "error", err)
			return err
		}
	}

	logger.L.Info("IngestFiles DONE", "runID", runID, "handle", handle, "duration", time.Since(start).String())
	return nil
}

func (s *pipelineServiceImpl) ingestFile(ctx context.Context, parser parsers.Parser, path, runID string) error {
	filehash, err := utils.HashFile(path)
	if err != nil {
		// A hash failure is not fatal; the row set still ingests under a
		// recognizable placeholder.
		logger.L.Warn("Hashing failed, substituting placeholder", "runID", runID, "file", path, "error", err)
		filehash = utils.FailedHash
	}

	grid, err := sheet.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIngestFailed, err)
	}
	logger.L.Info("Opened workbook", "runID", runID, "file", path,
		"rows", grid.RowCount(), "cells", grid.CellCount(), "nonEmptyCells", grid.NonEmptyCount())

	trades, err := parser.Parse(grid, path, filehash)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIngestFailed, err)
	}

	for i := range trades {
		if err := s.writer.InsertTrade(ctx, &trades[i]); err != nil {
			return fmt.Errorf("%w: %v", ErrIngestFailed, err)
		}
	}
	logger.L.Info("Ingested file", "runID", runID, "file", path, "trades", len(trades))
	return nil
}

func (s *pipelineServiceImpl) Summarize(ctx context.Context, handle string) error {
	runID := uuid.NewString()
	start := time.Now()
	logger.L.Info("Summarize START", "runID", runID, "handle", handle)

	if err := s.summarizer.Summarize(ctx, handle); err != nil {
		logger.L.Error("Summarization failed", "runID", runID, "handle", handle, "error", err)
		return err
	}
	if err := s.chainer.Chain(ctx, handle); err != nil {
		logger.L.Error("Chain build failed", "runID", runID, "handle", handle, "error", err)
		return err
	}

	logger.L.Info("Summarize DONE", "runID", runID, "handle", handle, "duration", time.Since(start).String())
	return nil
}
