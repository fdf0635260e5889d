package vfs

// defaultStubs is the preloaded declaration set: deliberately minimal shapes
// for the component framework, icon library, charting library and the
// design-system primitives generated components import. The stubs exist so
// module resolution succeeds for the common imports; they are not complete
// typings.
var defaultStubs = map[string]string{
	"/lib.d.ts": libStub,

	"/node_modules/react/index.d.ts":        reactStub,
	"/node_modules/react-dom/index.d.ts":    reactDOMStub,
	"/node_modules/lucide-react/index.d.ts": lucideStub,
	"/node_modules/recharts/index.d.ts":     rechartsStub,

	"/lib/utils.ts": utilsStub,

	"/components/ui/button.d.ts":   buttonStub,
	"/components/ui/card.d.ts":     cardStub,
	"/components/ui/input.d.ts":    inputStub,
	"/components/ui/label.d.ts":    labelStub,
	"/components/ui/textarea.d.ts": textareaStub,
}

const libStub = `// Placeholder default library. Lib checking is skipped, so this only needs
// to exist for resolution.
declare var console: { log(...args: any[]): void; warn(...args: any[]): void; error(...args: any[]): void };
declare function setTimeout(handler: () => void, timeout?: number): number;
declare function clearTimeout(handle: number): void;
`

const reactStub = `declare namespace React {
  type ReactNode = any;
  interface FC<P = {}> { (props: P): ReactNode }
  interface CSSProperties { [key: string]: string | number }
}
export = React;
export as namespace React;
export declare function useState<T>(initial: T | (() => T)): [T, (next: T | ((prev: T) => T)) => void];
export declare function useEffect(effect: () => void | (() => void), deps?: any[]): void;
export declare function useMemo<T>(factory: () => T, deps: any[]): T;
export declare function useCallback<T extends (...args: any[]) => any>(fn: T, deps: any[]): T;
export declare function useRef<T>(initial: T | null): { current: T | null };
export default React;
`

const reactDOMStub = `export declare function createRoot(container: any): { render(node: any): void };
export declare function render(node: any, container: any): void;
`

const lucideStub = `import * as React from "react";
export interface LucideProps { size?: number | string; color?: string; className?: string }
type Icon = React.FC<LucideProps>;
export declare const ArrowRight: Icon;
export declare const Check: Icon;
export declare const ChevronDown: Icon;
export declare const Loader2: Icon;
export declare const Plus: Icon;
export declare const Search: Icon;
export declare const Settings: Icon;
export declare const Trash2: Icon;
export declare const X: Icon;
`

const rechartsStub = `import * as React from "react";
type ChartComponent = React.FC<any>;
export declare const ResponsiveContainer: ChartComponent;
export declare const LineChart: ChartComponent;
export declare const Line: ChartComponent;
export declare const BarChart: ChartComponent;
export declare const Bar: ChartComponent;
export declare const PieChart: ChartComponent;
export declare const Pie: ChartComponent;
export declare const Cell: ChartComponent;
export declare const XAxis: ChartComponent;
export declare const YAxis: ChartComponent;
export declare const CartesianGrid: ChartComponent;
export declare const Tooltip: ChartComponent;
export declare const Legend: ChartComponent;
`

const utilsStub = `export function cn(...inputs: Array<string | undefined | null | false>): string {
  return inputs.filter(Boolean).join(" ");
}
`

const buttonStub = `import * as React from "react";
export declare const Button: React.FC<{
  variant?: "default" | "outline" | "ghost" | "destructive";
  size?: "default" | "sm" | "lg" | "icon";
  className?: string;
  disabled?: boolean;
  onClick?: () => void;
  children?: React.ReactNode;
}>;
`

const cardStub = `import * as React from "react";
type Section = React.FC<{ className?: string; children?: React.ReactNode }>;
export declare const Card: Section;
export declare const CardHeader: Section;
export declare const CardTitle: Section;
export declare const CardDescription: Section;
export declare const CardContent: Section;
export declare const CardFooter: Section;
`

const inputStub = `import * as React from "react";
export declare const Input: React.FC<{
  type?: string;
  value?: string;
  placeholder?: string;
  className?: string;
  onChange?: (event: any) => void;
}>;
`

const labelStub = `import * as React from "react";
export declare const Label: React.FC<{ htmlFor?: string; className?: string; children?: React.ReactNode }>;
`

const textareaStub = `import * as React from "react";
export declare const Textarea: React.FC<{
  value?: string;
  placeholder?: string;
  rows?: number;
  className?: string;
  onChange?: (event: any) => void;
}>;
`
