package engine

import (
	"container/heap"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/holocron/holocron-server/pkg/holocron"
)

// classGates are the class-specific edge requirements. An edge whose
// requirement mentions one of these is usable only by that class.
var classGates = []string{"Mage", "Engineer", "Druid"}

// hearthstoneMethods are travel methods gated on hearthstone cooldown.
var hearthstoneMethods = map[string]bool{
	"HEARTHSTONE":          true,
	"DALARAN_HEARTHSTONE":  true,
	"GARRISON_HEARTHSTONE": true,
}

// travelGraph is an adjacency list over zone IDs.
type travelGraph struct {
	zones map[int64]holocron.Zone
	adj   map[int64][]holocron.TravelEdge
}

// loadTravelGraph builds the zone graph, keeping only edges the
// character can use.
func (e *Engine) loadTravelGraph(ctx context.Context, charClass string, hearthstone bool) (*travelGraph, error) {
	zones, err := e.travel.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading zones: %w", err)
	}
	edges, err := e.travel.ListEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading travel edges: %w", err)
	}

	g := &travelGraph{zones: zones, adj: make(map[int64][]holocron.TravelEdge)}
	for _, edge := range edges {
		if !edgeUsable(edge, charClass, hearthstone) {
			continue
		}
		g.adj[edge.SourceZoneID] = append(g.adj[edge.SourceZoneID], edge)
	}

	return g, nil
}

func edgeUsable(edge holocron.TravelEdge, charClass string, hearthstone bool) bool {
	for _, gate := range classGates {
		if strings.Contains(edge.Requirement, gate) && charClass != gate {
			return false
		}
	}
	if hearthstoneMethods[edge.Method] && !hearthstone {
		return false
	}
	return true
}

// FindRoute computes the fastest route between two zones.
func (e *Engine) FindRoute(ctx context.Context, req holocron.RouteRequest) (*holocron.Route, error) {
	g, err := e.loadTravelGraph(ctx, req.CharacterClass, req.HearthstoneAvailable)
	if err != nil {
		return nil, err
	}

	if _, ok := g.zones[req.SourceZoneID]; !ok {
		return &holocron.Route{Reason: fmt.Sprintf("Source zone %d not found", req.SourceZoneID)}, nil
	}
	if _, ok := g.zones[req.DestZoneID]; !ok {
		return &holocron.Route{Reason: fmt.Sprintf("Destination zone %d not found", req.DestZoneID)}, nil
	}

	dist, prev := g.dijkstra(req.SourceZoneID)
	if _, ok := dist[req.DestZoneID]; !ok {
		return &holocron.Route{
			Reason: fmt.Sprintf("No path found from %s to %s",
				g.zones[req.SourceZoneID].Name, g.zones[req.DestZoneID].Name),
		}, nil
	}

	var path []int64
	for at := req.DestZoneID; ; {
		path = append([]int64{at}, path...)
		edge, ok := prev[at]
		if !ok {
			break
		}
		at = edge.SourceZoneID
	}

	steps := make([]holocron.TravelStep, 0, len(path)-1)
	for _, zoneID := range path[1:] {
		edge := prev[zoneID]
		steps = append(steps, holocron.TravelStep{
			FromZone: g.zones[edge.SourceZoneID].Name,
			ToZone:   g.zones[edge.DestZoneID].Name,
			Method:   edge.Method,
			TimeSec:  edge.TimeSec,
		})
	}

	return &holocron.Route{
		Found:        true,
		Path:         path,
		Steps:        steps,
		TotalTimeSec: dist[req.DestZoneID],
		Source:       g.zones[req.SourceZoneID].Name,
		Destination:  g.zones[req.DestZoneID].Name,
	}, nil
}

// ReachableZones lists zones reachable from source within a time
// budget, closest first.
func (e *Engine) ReachableZones(ctx context.Context, sourceZoneID int64, maxTimeSec int, charClass string, hearthstone bool) ([]holocron.ReachableZone, error) {
	g, err := e.loadTravelGraph(ctx, charClass, hearthstone)
	if err != nil {
		return nil, err
	}
	if _, ok := g.zones[sourceZoneID]; !ok {
		return nil, fmt.Errorf("source zone %d not found", sourceZoneID)
	}

	dist, prev := g.dijkstra(sourceZoneID)

	var reachable []holocron.ReachableZone
	for zoneID, t := range dist {
		if zoneID == sourceZoneID || t > maxTimeSec {
			continue
		}
		steps := 0
		for at := zoneID; ; {
			edge, ok := prev[at]
			if !ok {
				break
			}
			steps++
			at = edge.SourceZoneID
		}
		reachable = append(reachable, holocron.ReachableZone{
			ZoneID:   zoneID,
			ZoneName: g.zones[zoneID].Name,
			TimeSec:  t,
			Steps:    steps,
		})
	}

	sort.Slice(reachable, func(i, j int) bool {
		if reachable[i].TimeSec != reachable[j].TimeSec {
			return reachable[i].TimeSec < reachable[j].TimeSec
		}
		return reachable[i].ZoneID < reachable[j].ZoneID
	})

	return reachable, nil
}

// dijkstra returns travel times from source and, for every reached
// zone, the edge used to enter it.
func (g *travelGraph) dijkstra(source int64) (map[int64]int, map[int64]holocron.TravelEdge) {
	dist := map[int64]int{source: 0}
	prev := make(map[int64]holocron.TravelEdge)
	done := make(map[int64]bool)

	pq := &zoneQueue{{zoneID: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(zoneItem)
		if done[item.zoneID] {
			continue
		}
		done[item.zoneID] = true

		for _, edge := range g.adj[item.zoneID] {
			next := item.dist + edge.TimeSec
			if cur, ok := dist[edge.DestZoneID]; !ok || next < cur {
				dist[edge.DestZoneID] = next
				prev[edge.DestZoneID] = edge
				heap.Push(pq, zoneItem{zoneID: edge.DestZoneID, dist: next})
			}
		}
	}

	return dist, prev
}

type zoneItem struct {
	zoneID int64
	dist   int
}

type zoneQueue []zoneItem

func (q zoneQueue) Len() int           { return len(q) }
func (q zoneQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q zoneQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *zoneQueue) Push(x any)        { *q = append(*q, x.(zoneItem)) }
func (q *zoneQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
