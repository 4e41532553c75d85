package service

import (
	"context"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/ids"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/query"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/vo"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Acknowledge 确认事件。全部校验在写入前完成，写入在同一事务中执行，
// 关闭问题任务的通知在事务提交之后发送。
func (s *eventService) Acknowledge(ctx context.Context, principal entity.Principal,
	req vo.AcknowledgeReq) (vo.AcknowledgeResp, core.ServiceError) {
	eventIDs, err := ids.Parse(req.EventIDs)
	if err != nil {
		return vo.AcknowledgeResp{}, NewSvcParameterError("Incorrect value for field \"eventids\": %s.", err.Error())
	}
	if eventIDs.Len() == 0 || req.Message == nil {
		return vo.AcknowledgeResp{}, NewSvcParameterError(msgIncorrectArguments)
	}
	if *req.Message == "" {
		return vo.AcknowledgeResp{}, NewSvcParameterError(msgEmptyMessage)
	}
	action := entity.AcknowledgeActionNone
	if req.Action != nil {
		action = entity.AcknowledgeAction(*req.Action)
	}
	if !action.Valid() {
		return vo.AcknowledgeResp{}, NewSvcParameterError("Incorrect value for field \"action\": unexpected value \"%d\".", int(action))
	}

	if svcErr := s.checkCanBeAcknowledged(ctx, principal, eventIDs); svcErr != nil {
		return vo.AcknowledgeResp{}, svcErr
	}
	if action == entity.AcknowledgeActionCloseProblem {
		if svcErr := s.checkCanBeManuallyClosed(ctx, principal, eventIDs); svcErr != nil {
			return vo.AcknowledgeResp{}, svcErr
		}
	}

	taskIDs, svcErr := s.writeAcknowledges(ctx, principal, eventIDs.Slice(), *req.Message, action)
	if svcErr != nil {
		return vo.AcknowledgeResp{}, svcErr
	}

	if len(taskIDs) > 0 && s.notifier != nil {
		if err := s.notifier.AnnounceCloseProblem(ctx, taskIDs); err != nil {
			log.Warnf("announce close problem tasks %v failed: %s", taskIDs, err.Error())
		}
	}
	return vo.AcknowledgeResp{EventIDs: eventIDs.Slice()}, nil
}

// checkCanBeAcknowledged 只有调用方可见的触发器事件可以确认。
// 不可见的事件再按其真实的来源和对象检查一次，以区分“对象类型不对”和“无权限或不存在”。
func (s *eventService) checkCanBeAcknowledged(ctx context.Context, principal entity.Principal, eventIDs *ids.Set) core.ServiceError {
	allowed, svcErr := s.Get(ctx, principal, vo.EventGetReq{
		EventIDs: eventIDs.Slice(),
		Output:   entity.Fields("eventid"),
	})
	if svcErr != nil {
		return svcErr
	}

	for _, eventID := range eventIDs.Slice() {
		if allowed.Has(eventID) {
			continue
		}

		rows, rErr := s.events.Select(ctx, query.NewEventParts().
			Apply(query.EventIDs([]uint64{eventID}), query.Output(entity.Fields("source", "object"))).
			Limit(1))
		if rErr != nil {
			log.Errorf("select event %d failed: %s", eventID, rErr.Error())
			return NewSvcInternalError(rErr)
		}
		if len(rows) == 0 {
			return NewSvcPermissionError(msgNoPermissions)
		}

		source, object := cast.ToInt(rows[0]["source"]), cast.ToInt(rows[0]["object"])
		visible, svcErr := s.Get(ctx, principal, vo.EventGetReq{
			EventIDs: []uint64{eventID},
			Source:   &source,
			Object:   &object,
			Output:   entity.Fields("eventid"),
			Limit:    1,
		})
		if svcErr != nil {
			return svcErr
		}
		if visible.Len() > 0 {
			return NewSvcPermissionError(msgOnlyTriggerEvents)
		}
		return NewSvcPermissionError(msgNoPermissions)
	}
	return nil
}

// checkCanBeManuallyClosed 关闭问题需要写权限，事件处于问题状态，且触发器允许手动关闭
func (s *eventService) checkCanBeManuallyClosed(ctx context.Context, principal entity.Principal, eventIDs *ids.Set) core.ServiceError {
	events, svcErr := s.Get(ctx, principal, vo.EventGetReq{
		EventIDs:            eventIDs.Slice(),
		Output:              entity.Fields("eventid", "value"),
		SelectRelatedObject: entity.Fields("manual_close"),
		Editable:            true,
	})
	if svcErr != nil {
		return svcErr
	}
	if events.Len() != eventIDs.Len() {
		return NewSvcPermissionError(msgNoPermissions)
	}

	for _, eventID := range eventIDs.Slice() {
		e := events.Events[eventID]
		if cast.ToInt(e["value"]) != entity.TriggerValueProblem {
			return NewSvcPermissionError(msgNotProblemState)
		}
		trigger, _ := e["relatedObject"].(entity.Record)
		if trigger == nil || cast.ToInt(trigger["manual_close"]) == entity.TriggerManualCloseNotAllowed {
			return NewSvcPermissionError(msgNoManualClose)
		}
	}
	return nil
}

// writeAcknowledges 标记已确认、写入确认记录，关闭问题时为每条确认记录写入一个任务
func (s *eventService) writeAcknowledges(ctx context.Context, principal entity.Principal, eventIDs []uint64,
	message string, action entity.AcknowledgeAction) ([]uint64, core.ServiceError) {
	clock := time.Now().Unix()
	var taskIDs []uint64

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if rErr := s.events.SetAcknowledged(ctx, eventIDs); rErr != nil {
			return rErr
		}

		acks := make([]entity.Acknowledge, 0, len(eventIDs))
		for _, eventID := range eventIDs {
			acks = append(acks, entity.Acknowledge{
				UserID:  principal.UserID,
				EventID: eventID,
				Clock:   clock,
				Message: message,
				Action:  action,
			})
		}
		ackIDs, rErr := s.acks.Insert(ctx, acks)
		if rErr != nil {
			return rErr
		}
		if len(ackIDs) != len(acks) {
			return dependency.NewRepoGenerateIDError(errors.Errorf("expected %d acknowledge ids, got %d", len(acks), len(ackIDs)))
		}

		if action != entity.AcknowledgeActionCloseProblem {
			return nil
		}
		tasks := make([]entity.Task, 0, len(ackIDs))
		for range ackIDs {
			tasks = append(tasks, entity.Task{Type: entity.TaskTypeCloseProblem, Status: entity.TaskStatusNew, Clock: clock})
		}
		created, rErr := s.tasks.InsertTasks(ctx, tasks)
		if rErr != nil {
			return rErr
		}
		if len(created) != len(ackIDs) {
			return dependency.NewRepoGenerateIDError(errors.Errorf("expected %d task ids, got %d", len(ackIDs), len(created)))
		}
		links := make([]entity.TaskCloseProblem, 0, len(created))
		for i, taskID := range created {
			links = append(links, entity.TaskCloseProblem{TaskID: taskID, AcknowledgeID: ackIDs[i]})
		}
		if rErr := s.tasks.InsertCloseProblem(ctx, links); rErr != nil {
			return rErr
		}
		taskIDs = created
		return nil
	})
	if err != nil {
		log.Errorf("acknowledge events %v failed: %s", eventIDs, err.Error())
		rErr, ok := err.(core.RepoError)
		if !ok {
			rErr = dependency.NewRepoInternalError(err)
		}
		return nil, NewSvcStorageError(rErr)
	}

	log.Infof("user %d acknowledged %d events, action %d, %d tasks created", principal.UserID, len(eventIDs), action, len(taskIDs))
	return taskIDs, nil
}
