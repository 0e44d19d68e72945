package engine

import "github.com/anpai/anpai/pkg/milp"

// composeObjective 组装最小化目标：总指派班次数
// 这是一个成本代理，不按薪酬或偏好加权；调整目标只改这里，约束族不动
func composeObjective(p *Plan) milp.Objective {
	terms := make([]milp.Term, 0, len(p.Vars))
	for _, emp := range p.Employees {
		for _, day := range p.Days {
			for _, st := range p.ShiftTypes {
				terms = append(terms, milp.Term{Coeff: 1, Var: p.Vars[VarKey{emp.Name, day, st}]})
			}
		}
	}
	return milp.Objective{Terms: terms}
}
