package service

import (
	"context"
	"strings"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/ids"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/query"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/vo"
	"github.com/spf13/cast"
)

// 允许排序的事件字段
var eventSortFields = []string{"eventid", "objectid", "clock"}

type EventService interface {
	Get(ctx context.Context, principal entity.Principal, req vo.EventGetReq) (vo.GetResult, core.ServiceError)
	Acknowledge(ctx context.Context, principal entity.Principal, req vo.AcknowledgeReq) (vo.AcknowledgeResp, core.ServiceError)
}

type eventService struct {
	events      dependency.EventRepo
	acks        dependency.AcknowledgeRepo
	tasks       dependency.TaskRepo
	tx          dependency.TxManager
	notifier    dependency.TaskNotifier
	lookups     *dependency.Lookups
	permissions *PermissionFilter
}

// getOptions 解析并校验后的查询参数
type getOptions struct {
	object     entity.EventObject
	source     entity.EventSource
	eventIDs   *ids.Set
	groupIDs   *ids.Set
	hostIDs    *ids.Set
	objectIDs  *ids.Set
	values     []int
	limit      uint64
	sortFields []string
	sortOrders []string
	output     entity.Output
}

func (s *eventService) Get(ctx context.Context, principal entity.Principal, req vo.EventGetReq) (vo.GetResult, core.ServiceError) {
	opts, svcErr := parseGetReq(req)
	if svcErr != nil {
		return vo.GetResult{}, svcErr
	}

	parts, svcErr := s.buildParts(ctx, principal, req, opts)
	if svcErr != nil {
		return vo.GetResult{}, svcErr
	}

	rows, rErr := s.events.Select(ctx, parts)
	if rErr != nil {
		log.Errorf("select events failed: %s", rErr.Error())
		return vo.GetResult{}, NewSvcInternalError(rErr)
	}

	if req.CountOutput {
		return countResult(rows, req.GroupCount), nil
	}

	if svcErr = s.addRelatedObjects(ctx, req, opts, rows); svcErr != nil {
		return vo.GetResult{}, svcErr
	}
	// object、objectid 只用于查询关联对象时不返回
	unsetExtraFields(rows, opts.output, "object", "objectid")

	// 默认按 eventid 建立映射，只有要求保持查询顺序时才返回列表
	if req.PreserveOrder && !req.PreserveKeys {
		return vo.GetResult{Kind: vo.ResultList, List: rows}, nil
	}
	events := make(map[uint64]entity.Record, len(rows))
	for _, r := range rows {
		events[cast.ToUint64(r["eventid"])] = r
	}
	return vo.GetResult{Kind: vo.ResultEvents, Events: events}, nil
}

func parseGetReq(req vo.EventGetReq) (getOptions, core.ServiceError) {
	opts := getOptions{
		object: entity.EventObjectTrigger,
		source: entity.EventSourceTriggers,
		output: req.Output,
	}
	if !opts.output.Requested() {
		opts.output = entity.Extend()
	}
	if req.Object != nil {
		opts.object = entity.EventObject(*req.Object)
	}
	if req.Source != nil {
		opts.source = entity.EventSource(*req.Source)
	}

	if !opts.source.Valid() {
		return opts, NewSvcParameterError("Incorrect value for field \"source\": unexpected value \"%d\".", int(opts.source))
	}
	if !opts.object.Valid() {
		return opts, NewSvcParameterError("Incorrect value for field \"object\": unexpected value \"%d\".", int(opts.object))
	}
	if !entity.Compatible(opts.source, opts.object) {
		return opts, NewSvcParameterError("Incorrect event object \"%d\" (%s) for event source \"%d\" (%s).",
			int(opts.object), opts.object, int(opts.source), opts.source)
	}

	var err error
	for _, target := range []struct {
		field string
		raw   interface{}
		set   **ids.Set
	}{
		{"eventids", req.EventIDs, &opts.eventIDs},
		{"groupids", req.GroupIDs, &opts.groupIDs},
		{"hostids", req.HostIDs, &opts.hostIDs},
		{"objectids", req.ObjectIDs, &opts.objectIDs},
	} {
		if *target.set, err = ids.Parse(target.raw); err != nil {
			return opts, NewSvcParameterError("Incorrect value for field \"%s\": %s.", target.field, err.Error())
		}
	}

	if opts.values, err = parseValues(req.Value); err != nil {
		return opts, NewSvcParameterError("Incorrect value for field \"value\": %s.", err.Error())
	}
	opts.limit = parseLimit(req.Limit)
	opts.sortFields = cast.ToStringSlice(req.SortField)
	opts.sortOrders = cast.ToStringSlice(req.SortOrder)
	return opts, nil
}

func parseValues(raw interface{}) ([]int, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		list = []interface{}{raw}
	}
	values := make([]int, 0, len(list))
	for _, v := range list {
		value, err := cast.ToIntE(v)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// parseLimit 只接受正整数，其它值视为不限制
func parseLimit(raw interface{}) uint64 {
	if raw == nil {
		return 0
	}
	str := strings.TrimSpace(cast.ToString(raw))
	if str == "" || strings.TrimLeft(str, "0123456789") != "" {
		return 0
	}
	return cast.ToUint64(str)
}

func (s *eventService) buildParts(ctx context.Context, principal entity.Principal, req vo.EventGetReq,
	opts getOptions) (*query.Parts, core.ServiceError) {
	p := query.NewEventParts()

	if !req.NoPermissions {
		scope, svcErr := s.permissions.Scope(ctx, principal, opts.object, opts.objectIDs, req.Editable)
		if svcErr != nil {
			return nil, svcErr
		}
		if scope.ObjectIDs != nil {
			opts.objectIDs = scope.ObjectIDs
		}
		p.Apply(scope.Predicate)
	}

	if opts.eventIDs != nil {
		p.Apply(query.EventIDs(opts.eventIDs.Slice()))
	}
	if opts.objectIDs != nil {
		p.Apply(query.ObjectIDs(opts.object, opts.objectIDs.Slice(), req.GroupCount))
	}
	if opts.groupIDs != nil {
		p.Apply(query.GroupIDs(opts.object, opts.groupIDs.Slice()))
	}
	if opts.hostIDs != nil {
		p.Apply(query.HostIDs(opts.object, opts.hostIDs.Slice()))
	}
	p.Apply(query.Object(opts.object), query.Source(opts.source))
	if req.Acknowledged != nil {
		p.Apply(query.Acknowledged(*req.Acknowledged))
	}
	if req.TimeFrom != nil {
		p.Apply(query.TimeFrom(*req.TimeFrom))
	}
	if req.TimeTill != nil {
		p.Apply(query.TimeTill(*req.TimeTill))
	}
	if req.EventIDFrom != nil {
		p.Apply(query.EventIDFrom(*req.EventIDFrom))
	}
	if req.EventIDTill != nil {
		p.Apply(query.EventIDTill(*req.EventIDTill))
	}
	if opts.values != nil {
		p.Apply(query.Values(opts.values))
	}

	filter, err := query.Filter(entity.EventsTable, req.Filter)
	if err != nil {
		return nil, NewSvcParameterError("%s", err.Error())
	}
	p.Apply(filter)
	if len(req.Search) > 0 {
		p.Apply(query.Search(entity.EventsTable, query.SearchOptions{
			Search:           req.Search,
			SearchByAny:      req.SearchByAny,
			StartSearch:      req.StartSearch,
			ExcludeSearch:    req.ExcludeSearch,
			WildcardsEnabled: req.SearchWildcardsEnabled,
		}))
	}

	if req.CountOutput {
		p.Count()
		if req.GroupCount {
			p.GroupBy("objectid", entity.EventsTable.Column("objectid"))
		}
	}

	sort, err := query.Sort(entity.EventsTable, eventSortFields, opts.sortFields, opts.sortOrders)
	if err != nil {
		return nil, NewSvcParameterError("%s", err.Error())
	}
	p.Apply(sort)
	p.Limit(opts.limit)

	withObject := req.SelectHosts.Rows() || (req.SelectRelatedObject.Rows() && opts.object != entity.EventObjectAutoRegHost)
	p.Apply(query.EventOutput(opts.output, withObject))
	return p, nil
}

func countResult(rows []entity.Record, groupCount bool) vo.GetResult {
	if groupCount {
		groups := make([]entity.Record, 0, len(rows))
		groups = append(groups, rows...)
		return vo.GetResult{Kind: vo.ResultGroups, Groups: groups}
	}
	var count int64
	if len(rows) > 0 {
		count = cast.ToInt64(rows[0]["rowscount"])
	}
	return vo.GetResult{Kind: vo.ResultCount, Count: count}
}

// unsetExtraFields 删除为关联查询额外取出、但调用方没有请求的字段
func unsetExtraFields(records []entity.Record, output entity.Output, fields ...string) {
	for _, field := range fields {
		if output.Has(field) {
			continue
		}
		for _, r := range records {
			delete(r, field)
		}
	}
}
