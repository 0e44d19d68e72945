// Package bnb 提供纯二元规划的精确分支定界求解器
// 作为 milp.Solver 的内置实现；换用外部求解后端时只需替换该包
package bnb

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/anpai/anpai/pkg/logger"
	"github.com/anpai/anpai/pkg/milp"
)

const eps = 1e-6

// Solver 分支定界求解器
// 按变量登记顺序做深度优先搜索，先试 0 再试 1，结果确定可复现
type Solver struct {
	maxNodes int
	log      *logger.RunLogger
}

// New 创建求解器
func New() *Solver {
	return &Solver{
		maxNodes: 1_000_000,
		log:      logger.NewRunLogger(),
	}
}

// SetMaxNodes 设置搜索节点数上限，超出后返回 NotSolved
func (s *Solver) SetMaxNodes(max int) {
	s.maxNodes = max
}

// Name 返回求解器名称
func (s *Solver) Name() string {
	return "BranchAndBound"
}

// consState 单条约束的搜索状态
// fixed 是已定变量的贡献；minRest/maxRest 是未定变量可能贡献的上下界
type consState struct {
	fixed   float64
	minRest float64
	maxRest float64
}

// varRef 变量在某条约束中的出现
type varRef struct {
	cons  int
	coeff float64
}

// Solve 求解一个已冻结的二元规划模型
// 上下文取消或节点数超限返回 NotSolved 状态而不是错误
func (s *Solver) Solve(ctx context.Context, m *milp.Model) (*milp.Outcome, error) {
	if m == nil {
		return nil, fmt.Errorf("模型为空")
	}
	if !m.Frozen() {
		return nil, fmt.Errorf("模型尚未冻结, 拒绝求解")
	}

	start := time.Now()
	n := m.NumVariables()
	cons := m.Constraints()

	// 约束初始状态与变量到约束的倒排索引
	states := make([]consState, len(cons))
	byVar := make([][]varRef, n)
	for ci := range cons {
		for _, t := range cons[ci].Terms {
			states[ci].minRest += math.Min(0, t.Coeff)
			states[ci].maxRest += math.Max(0, t.Coeff)
			byVar[t.Var.Index] = append(byVar[t.Var.Index], varRef{cons: ci, coeff: t.Coeff})
		}
	}

	objCoeff := make([]float64, n)
	for _, t := range m.Objective().Terms {
		objCoeff[t.Var.Index] += t.Coeff
	}
	var objFixed, objMinRest float64
	for _, c := range objCoeff {
		objMinRest += math.Min(0, c)
	}

	values := make([]float64, n)
	var best []float64
	bestObj := math.Inf(1)
	nodes := 0
	aborted := false

	// 当前部分取值下各约束是否仍可能满足
	feasible := func() bool {
		for ci := range cons {
			st := &states[ci]
			switch cons[ci].Sense {
			case milp.SenseLE:
				if st.fixed+st.minRest > cons[ci].RHS+eps {
					return false
				}
			case milp.SenseGE:
				if st.fixed+st.maxRest < cons[ci].RHS-eps {
					return false
				}
			default: // 等式两侧都要可达
				if st.fixed+st.minRest > cons[ci].RHS+eps {
					return false
				}
				if st.fixed+st.maxRest < cons[ci].RHS-eps {
					return false
				}
			}
		}
		return true
	}

	fix := func(i int, v float64) {
		values[i] = v
		objFixed += objCoeff[i] * v
		objMinRest -= math.Min(0, objCoeff[i])
		for _, r := range byVar[i] {
			st := &states[r.cons]
			st.fixed += r.coeff * v
			st.minRest -= math.Min(0, r.coeff)
			st.maxRest -= math.Max(0, r.coeff)
		}
	}
	unfix := func(i int, v float64) {
		objFixed -= objCoeff[i] * v
		objMinRest += math.Min(0, objCoeff[i])
		for _, r := range byVar[i] {
			st := &states[r.cons]
			st.fixed -= r.coeff * v
			st.minRest += math.Min(0, r.coeff)
			st.maxRest += math.Max(0, r.coeff)
		}
	}

	var dfs func(i int)
	dfs = func(i int) {
		nodes++
		if nodes > s.maxNodes || ctx.Err() != nil {
			aborted = true
			return
		}
		// 下界剪枝：当前部分解的最好可能目标值已不优于现任解
		if objFixed+objMinRest >= bestObj-eps {
			return
		}
		if !feasible() {
			return
		}
		if i == n {
			bestObj = objFixed
			best = make([]float64, n)
			copy(best, values)
			return
		}
		for _, v := range [2]float64{0, 1} {
			fix(i, v)
			dfs(i + 1)
			unfix(i, v)
			if aborted {
				return
			}
		}
	}
	dfs(0)

	out := &milp.Outcome{
		Status:   milp.StatusInfeasible,
		Nodes:    nodes,
		Duration: time.Since(start),
	}
	switch {
	case aborted:
		out.Status = milp.StatusNotSolved
	case best != nil:
		out.Status = milp.StatusOptimal
		out.Values = best
		out.Objective = bestObj
	}
	s.log.SolveFinished(s.Name(), string(out.Status), out.Objective, nodes, out.Duration)
	return out, nil
}
