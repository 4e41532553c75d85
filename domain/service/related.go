package service

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/query"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/relation"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/vo"
	"github.com/spf13/cast"
)

// addRelatedObjects 每类关联对象按本页全部事件 ID 批量查询一次，再经 relation.Map 挂回事件
func (s *eventService) addRelatedObjects(ctx context.Context, req vo.EventGetReq, opts getOptions,
	events []entity.Record) core.ServiceError {
	if len(events) == 0 {
		return nil
	}
	eventIDs := make([]uint64, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, cast.ToUint64(e["eventid"]))
	}

	steps := []struct {
		enabled bool
		add     func() core.ServiceError
	}{
		{req.SelectHosts.Rows(), func() core.ServiceError {
			return s.addHosts(ctx, req.SelectHosts, opts.source, opts.object, eventIDs, events)
		}},
		{req.SelectRelatedObject.Rows() && opts.object != entity.EventObjectAutoRegHost, func() core.ServiceError {
			return s.addRelatedObject(ctx, req.SelectRelatedObject, opts.object, events)
		}},
		{req.SelectAlerts.Rows(), func() core.ServiceError {
			return s.addAlerts(ctx, req.SelectAlerts, eventIDs, events)
		}},
		{req.SelectAcknowledges.Requested(), func() core.ServiceError {
			return s.addAcknowledges(ctx, req.SelectAcknowledges, eventIDs, events)
		}},
		{req.SelectTags.Rows(), func() core.ServiceError {
			return s.addTags(ctx, eventIDs, events)
		}},
	}
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if svcErr := step.add(); svcErr != nil {
			return svcErr
		}
	}
	return nil
}

func (s *eventService) addHosts(ctx context.Context, output entity.Output, source entity.EventSource,
	object entity.EventObject, eventIDs []uint64, events []entity.Record) core.ServiceError {
	rel := relation.New("eventid")
	if parts, ok := query.HostRelation(source, object, eventIDs); ok {
		rows, rErr := s.events.Select(ctx, parts)
		if rErr != nil {
			return relatedError("hosts", rErr)
		}
		rel = relation.FromRecords(rows, "eventid", "hostid")
	}

	hosts, svcErr := s.lookup(ctx, s.lookups.Hosts, "hosts", dependency.LookupQuery{
		IDs:    rel.RelatedIDs(),
		Output: output,
	})
	if svcErr != nil {
		return svcErr
	}
	rel.MapMany(events, relation.Index(hosts, "hostid"), "hosts")
	return nil
}

// addRelatedObject 同一次查询中的事件对象类型一致，按请求的 object 选择查询
func (s *eventService) addRelatedObject(ctx context.Context, output entity.Output, object entity.EventObject,
	events []entity.Record) core.ServiceError {
	lookup, ok := s.lookups.ForObject(object)
	if !ok {
		return nil
	}
	rel := relation.FromRecords(events, "eventid", "objectid")
	objects, svcErr := s.lookup(ctx, lookup, "related objects", dependency.LookupQuery{
		IDs:    rel.RelatedIDs(),
		Output: output,
	})
	if svcErr != nil {
		return svcErr
	}
	rel.MapOne(events, relation.Index(objects, lookup.PK()), "relatedObject")
	unsetExtraFields(objects, output, lookup.PK())
	return nil
}

// addAlerts 告警按时间倒序
func (s *eventService) addAlerts(ctx context.Context, output entity.Output, eventIDs []uint64,
	events []entity.Record) core.ServiceError {
	alerts, svcErr := s.lookup(ctx, s.lookups.Alerts, "alerts", dependency.LookupQuery{
		IDs:       eventIDs,
		ByField:   "eventid",
		Output:    output,
		SortField: "clock",
		SortOrder: query.SortDESC,
	})
	if svcErr != nil {
		return svcErr
	}
	rel := relation.FromRecords(alerts, "eventid", "alertid")
	rel.MapMany(events, relation.Index(alerts, "alertid"), "alerts")
	unsetExtraFields(alerts, output, "alertid", "eventid")
	return nil
}

// addAcknowledges 输出为 count 时返回每个事件的确认次数
func (s *eventService) addAcknowledges(ctx context.Context, output entity.Output, eventIDs []uint64,
	events []entity.Record) core.ServiceError {
	if output.Mode == entity.OutputCount {
		rows, rErr := s.events.Select(ctx, query.Acknowledges(eventIDs, output, true))
		if rErr != nil {
			return relatedError("acknowledges", rErr)
		}
		counts := make(map[uint64]int64, len(rows))
		for _, r := range rows {
			counts[cast.ToUint64(r["eventid"])] = cast.ToInt64(r["rowscount"])
		}
		for _, e := range events {
			e["acknowledges"] = counts[cast.ToUint64(e["eventid"])]
		}
		return nil
	}

	acks, rErr := s.events.Select(ctx, query.Acknowledges(eventIDs, output, false))
	if rErr != nil {
		return relatedError("acknowledges", rErr)
	}
	rel := relation.FromRecords(acks, "eventid", "acknowledgeid")
	rel.MapMany(events, relation.Index(acks, "acknowledgeid"), "acknowledges")
	unsetExtraFields(acks, output, "acknowledgeid", "eventid")
	return nil
}

// addTags 标签只返回 tag、value
func (s *eventService) addTags(ctx context.Context, eventIDs []uint64, events []entity.Record) core.ServiceError {
	tags, rErr := s.events.Select(ctx, query.Tags(eventIDs))
	if rErr != nil {
		return relatedError("tags", rErr)
	}
	rel := relation.FromRecords(tags, "eventid", "eventtagid")
	rel.MapMany(events, relation.Index(tags, "eventtagid"), "tags")
	for _, t := range tags {
		delete(t, "eventtagid")
		delete(t, "eventid")
	}
	return nil
}

func (s *eventService) lookup(ctx context.Context, lookup dependency.ObjectLookup, name string,
	q dependency.LookupQuery) ([]entity.Record, core.ServiceError) {
	if len(q.IDs) == 0 {
		return nil, nil
	}
	records, rErr := lookup.Get(ctx, q)
	if rErr != nil {
		return nil, relatedError(name, rErr)
	}
	return records, nil
}

func relatedError(name string, rErr core.RepoError) core.ServiceError {
	log.Errorf("select event %s failed: %s", name, rErr.Error())
	return NewSvcInternalError(rErr)
}
