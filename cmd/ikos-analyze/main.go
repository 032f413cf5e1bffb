// Copyright IKOS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command ikos-analyze is a demonstration harness for pkg/engine: the core
// is a library with no IR frontend of its own (spec section 1: "CLI out of
// scope. The core is a library"), so this command builds one small,
// hard-coded loop CFG, runs the engine over it with the config knobs of
// spec section 6 exposed as flags, and prints the resulting table.
package main

import "github.com/NASA-SW-VnV/ikos-sub006/pkg/cmd"

func main() {
	cmd.Execute()
}
